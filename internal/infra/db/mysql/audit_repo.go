package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Save append satu audit entry; tidak pernah update
func (r *AuditRepository) Save(ctx context.Context, e *domain.Entry) error {
	const q = `
INSERT INTO audit_logs
(timestamp, tenant_id, user_id, action, resource_type, resource_id, result, metadata)
VALUES (?,?,?,?,?,?,?,?);
`
	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	result := e.Result
	if result == "" {
		result = domain.ResultSuccess
	}
	metadata := "{}"
	if e.Metadata != nil {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			b = []byte("{}")
		}
		metadata = string(b)
	}
	_, err := r.db.ExecContext(ctx, q,
		ts, stringOrDash(e.TenantID), stringOrDash(e.UserID), e.Action,
		e.ResourceType, e.ResourceID, result, metadata,
	)
	return err
}

// buildFilter shared WHERE builder untuk Trail + count
func buildFilter(f domain.Filters) (string, []any) {
	where := " WHERE 1=1"
	var args []any
	if f.TenantID != "" {
		where += " AND tenant_id = ?"
		args = append(args, f.TenantID)
	}
	if f.UserID != "" {
		where += " AND user_id = ?"
		args = append(args, f.UserID)
	}
	if f.Action != "" {
		where += " AND action = ?"
		args = append(args, f.Action)
	}
	if f.ResourceType != "" {
		where += " AND resource_type = ?"
		args = append(args, f.ResourceType)
	}
	if f.ResourceID != "" {
		where += " AND resource_id = ?"
		args = append(args, f.ResourceID)
	}
	if f.Start != nil {
		where += " AND timestamp >= ?"
		args = append(args, *f.Start)
	}
	if f.End != nil {
		where += " AND timestamp <= ?"
		args = append(args, *f.End)
	}
	return where, args
}

// Trail query entries dengan filter + pagination, plus total & has_more
func (r *AuditRepository) Trail(ctx context.Context, f domain.Filters, opts domain.ListOptions) (*domain.Trail, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	where, args := buildFilter(f)

	order := " ORDER BY timestamp DESC, id DESC"
	if opts.Ascending {
		order = " ORDER BY timestamp ASC, id ASC"
	}
	q := `
SELECT id, timestamp, tenant_id, user_id, action, resource_type, resource_id, result, metadata
FROM audit_logs` + where + order + " LIMIT ? OFFSET ?;"
	qArgs := append(append([]any{}, args...), opts.Limit, opts.Skip)

	rows, err := r.db.QueryContext(ctx, q, qArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		var e domain.Entry
		var metadata string
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.TenantID, &e.UserID, &e.Action,
			&e.ResourceType, &e.ResourceID, &e.Result, &metadata,
		); err != nil {
			return nil, err
		}
		if metadata != "" && metadata != "{}" {
			_ = json.Unmarshal([]byte(metadata), &e.Metadata)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var total int64
	countQ := "SELECT COUNT(*) FROM audit_logs" + where + ";"
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.Entry{}
	}
	return &domain.Trail{
		Entries: entries,
		Total:   total,
		HasMore: total > int64(opts.Skip+opts.Limit),
	}, nil
}

// Statistics group by action dengan success/failure sub-counts,
// urut count terbesar dulu
func (r *AuditRepository) Statistics(ctx context.Context, tenant string, start, end time.Time) (*domain.Statistics, error) {
	const q = `
SELECT action,
       COUNT(*) AS count,
       COALESCE(SUM(result='success'),0) AS success_count,
       COALESCE(SUM(result='failure'),0) AS failure_count
FROM audit_logs
WHERE tenant_id=? AND timestamp >= ? AND timestamp <= ?
GROUP BY action
ORDER BY count DESC;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.Statistics{PeriodStart: start, PeriodEnd: end}
	for rows.Next() {
		var a domain.ActionStats
		if err := rows.Scan(&a.Action, &a.Count, &a.SuccessCount, &a.FailureCount); err != nil {
			return nil, err
		}
		stats.ByAction = append(stats.ByAction, &a)
		stats.TotalActions += a.Count
	}
	return stats, rows.Err()
}

// PurgeBefore hapus entries lebih tua dari cutoff (retention sweep)
func (r *AuditRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE timestamp < ?;`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
