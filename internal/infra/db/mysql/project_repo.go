package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
id, tenant_id, owner_id, name, jurisdiction, zone,
plot_area_sqm, road_width_m, corner_plot, frontage_m,
use_type, proposed_floors, proposed_height_m, proposed_built_up_sqm,
tod_zone, redevelopment, slum_rehab,
status, approval_status, approval_comments, reviewed_by, reviewed_at,
evaluation_json, created_at, updated_at`

// Save insert/update Project record
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	const q = `
INSERT INTO compliance_projects
(id, tenant_id, owner_id, name, jurisdiction, zone,
 plot_area_sqm, road_width_m, corner_plot, frontage_m,
 use_type, proposed_floors, proposed_height_m, proposed_built_up_sqm,
 tod_zone, redevelopment, slum_rehab,
 status, approval_status, approval_comments, reviewed_by, reviewed_at,
 evaluation_json, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 name=VALUES(name), jurisdiction=VALUES(jurisdiction), zone=VALUES(zone),
 plot_area_sqm=VALUES(plot_area_sqm), road_width_m=VALUES(road_width_m),
 corner_plot=VALUES(corner_plot), frontage_m=VALUES(frontage_m),
 use_type=VALUES(use_type), proposed_floors=VALUES(proposed_floors),
 proposed_height_m=VALUES(proposed_height_m), proposed_built_up_sqm=VALUES(proposed_built_up_sqm),
 tod_zone=VALUES(tod_zone), redevelopment=VALUES(redevelopment), slum_rehab=VALUES(slum_rehab),
 status=VALUES(status), approval_status=VALUES(approval_status),
 approval_comments=VALUES(approval_comments), reviewed_by=VALUES(reviewed_by),
 reviewed_at=VALUES(reviewed_at), evaluation_json=VALUES(evaluation_json),
 updated_at=VALUES(updated_at);
`
	tenant := stringOrDash(p.TenantID)
	owner := stringOrDash(p.OwnerID)
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	updated := p.UpdatedAt
	if updated.IsZero() {
		updated = created
	}

	var evalJSON sql.NullString
	if p.Evaluation != nil {
		b, err := json.Marshal(p.Evaluation)
		if err != nil {
			return err
		}
		evalJSON = sql.NullString{String: string(b), Valid: true}
	}
	var reviewedAt sql.NullTime
	if p.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *p.ReviewedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, q,
		p.ID, tenant, owner, p.Name, p.Jurisdiction, p.Zone,
		p.Plot.AreaSqm, p.Plot.RoadWidthM, p.Plot.CornerPlot, p.Plot.FrontageM,
		p.Building.UseType, p.Building.ProposedFloors, p.Building.ProposedHeightM, p.Building.ProposedBuiltUpSqm,
		p.Special.TODZone, p.Special.Redevelopment, p.Special.SlumRehab,
		p.Status, p.ApprovalStatus, p.ApprovalComments, p.ReviewedBy, reviewedAt,
		evalJSON, created, updated,
	)
	return err
}

func scanProject(scan func(dest ...any) error) (*domain.Project, error) {
	var p domain.Project
	var reviewedAt sql.NullTime
	var evalJSON sql.NullString
	if err := scan(
		&p.ID, &p.TenantID, &p.OwnerID, &p.Name, &p.Jurisdiction, &p.Zone,
		&p.Plot.AreaSqm, &p.Plot.RoadWidthM, &p.Plot.CornerPlot, &p.Plot.FrontageM,
		&p.Building.UseType, &p.Building.ProposedFloors, &p.Building.ProposedHeightM, &p.Building.ProposedBuiltUpSqm,
		&p.Special.TODZone, &p.Special.Redevelopment, &p.Special.SlumRehab,
		&p.Status, &p.ApprovalStatus, &p.ApprovalComments, &p.ReviewedBy, &reviewedAt,
		&evalJSON, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		p.ReviewedAt = &t
	}
	if evalJSON.Valid && evalJSON.String != "" {
		var res domain.EvaluationResult
		if err := json.Unmarshal([]byte(evalJSON.String), &res); err != nil {
			return nil, err
		}
		res.Normalize()
		p.Evaluation = &res
	}
	return &p, nil
}

// Get by ID + Tenant, any owner (review side)
func (r *ProjectRepository) Get(ctx context.Context, tenant string, id domain.ProjectID) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=? AND id=? LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	p, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// GetOwned by ID + Tenant + Owner (owner side); absence and foreign
// ownership look the same to the caller
func (r *ProjectRepository) GetOwned(ctx context.Context, tenant, owner string, id domain.ProjectID) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=? AND owner_id=? AND id=? LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, owner, id)
	p, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return p, err
}

func (r *ProjectRepository) queryProjects(ctx context.Context, q string, args ...any) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByOwner semua project milik satu owner, updated terbaru dulu
func (r *ProjectRepository) ListByOwner(ctx context.Context, tenant, owner string) ([]*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=? AND owner_id=? ORDER BY updated_at DESC;`
	return r.queryProjects(ctx, q, tenant, owner)
}

// ListByApproval projects dengan approval status tertentu, terbaru dulu
func (r *ProjectRepository) ListByApproval(ctx context.Context, tenant string, status domain.ApprovalStatus) ([]*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=? AND approval_status=? ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, tenant, status)
}

// ListAll semua project satu tenant, terbaru dulu
func (r *ProjectRepository) ListAll(ctx context.Context, tenant string) ([]*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=? ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, tenant)
}

// Delete project milik owner
func (r *ProjectRepository) Delete(ctx context.Context, tenant, owner string, id domain.ProjectID) error {
	const q = `DELETE FROM compliance_projects WHERE tenant_id=? AND owner_id=? AND id=?;`
	res, err := r.db.ExecContext(ctx, q, tenant, owner, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByApproval rekap pending/approved/rejected/total untuk satu tenant
func (r *ProjectRepository) CountByApproval(ctx context.Context, tenant string) (pending, approved, rejected, total int64, err error) {
	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM(approval_status='pending'),0)  AS pending,
       COALESCE(SUM(approval_status='approved'),0) AS approved,
       COALESCE(SUM(approval_status='rejected'),0) AS rejected
FROM compliance_projects
WHERE tenant_id=?;
`
	err = r.db.QueryRowContext(ctx, q, tenant).Scan(&total, &pending, &approved, &rejected)
	return
}
