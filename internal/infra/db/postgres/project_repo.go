package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

type ProjectRepository struct{ db *sql.DB }

func NewProjectRepository(db *sql.DB) *ProjectRepository { return &ProjectRepository{db: db} }

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
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
VALUES ($1,$2,$3,$4,$5,$6,
        $7,$8,$9,$10,
        $11,$12,$13,$14,
        $15,$16,$17,
        $18,$19,$20,$21,$22,
        $23,$24,$25)
ON CONFLICT (id) DO UPDATE SET
 name = EXCLUDED.name,
 jurisdiction = EXCLUDED.jurisdiction,
 zone = EXCLUDED.zone,
 plot_area_sqm = EXCLUDED.plot_area_sqm,
 road_width_m = EXCLUDED.road_width_m,
 corner_plot = EXCLUDED.corner_plot,
 frontage_m = EXCLUDED.frontage_m,
 use_type = EXCLUDED.use_type,
 proposed_floors = EXCLUDED.proposed_floors,
 proposed_height_m = EXCLUDED.proposed_height_m,
 proposed_built_up_sqm = EXCLUDED.proposed_built_up_sqm,
 tod_zone = EXCLUDED.tod_zone,
 redevelopment = EXCLUDED.redevelopment,
 slum_rehab = EXCLUDED.slum_rehab,
 status = EXCLUDED.status,
 approval_status = EXCLUDED.approval_status,
 approval_comments = EXCLUDED.approval_comments,
 reviewed_by = EXCLUDED.reviewed_by,
 reviewed_at = EXCLUDED.reviewed_at,
 evaluation_json = EXCLUDED.evaluation_json,
 updated_at = EXCLUDED.updated_at;`

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
		p.ID, stringOrDash(p.TenantID), stringOrDash(p.OwnerID), p.Name, p.Jurisdiction, p.Zone,
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

// Get by ID + Tenant
func (r *ProjectRepository) Get(ctx context.Context, tenant string, id domain.ProjectID) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	p, err := scanProject(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return p, err
}

// GetOwned by ID + Tenant + Owner
func (r *ProjectRepository) GetOwned(ctx context.Context, tenant, owner string, id domain.ProjectID) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=$1 AND owner_id=$2 AND id=$3 LIMIT 1;`
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
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=$1 AND owner_id=$2 ORDER BY updated_at DESC;`
	return r.queryProjects(ctx, q, tenant, owner)
}

// ListByApproval projects dengan approval status tertentu
func (r *ProjectRepository) ListByApproval(ctx context.Context, tenant string, status domain.ApprovalStatus) ([]*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=$1 AND approval_status=$2 ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, tenant, status)
}

// ListAll semua project satu tenant
func (r *ProjectRepository) ListAll(ctx context.Context, tenant string) ([]*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM compliance_projects WHERE tenant_id=$1 ORDER BY created_at DESC;`
	return r.queryProjects(ctx, q, tenant)
}

// Delete project milik owner
func (r *ProjectRepository) Delete(ctx context.Context, tenant, owner string, id domain.ProjectID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM compliance_projects WHERE tenant_id=$1 AND owner_id=$2 AND id=$3;`, tenant, owner, id)
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

// CountByApproval rekap pending/approved/rejected/total
func (r *ProjectRepository) CountByApproval(ctx context.Context, tenant string) (pending, approved, rejected, total int64, err error) {
	const q = `
SELECT COUNT(*) AS total,
       COALESCE(SUM((approval_status='pending')::int),0)  AS pending,
       COALESCE(SUM((approval_status='approved')::int),0) AS approved,
       COALESCE(SUM((approval_status='rejected')::int),0) AS rejected
FROM compliance_projects
WHERE tenant_id=$1;`
	err = r.db.QueryRowContext(ctx, q, tenant).Scan(&total, &pending, &approved, &rejected)
	return
}
