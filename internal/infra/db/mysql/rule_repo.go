package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/rules"
)

type RuleRepository struct {
	db *sql.DB
}

func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

// Save insert approved rule ke index. Rules are write-once; duplicate id
// hanya refresh parsed_logic (approval ulang kandidat yang sama).
func (r *RuleRepository) Save(ctx context.Context, rule *domain.ApprovedRule) error {
	const q = `
INSERT INTO approved_rules
(rule_id, jurisdiction, clause_number, title, clause_text,
 approved_at, approved_by, source_batch_id, source_index, parsed_logic)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 parsed_logic=VALUES(parsed_logic);
`
	var parsed sql.NullString
	if len(rule.ParsedLogic) > 0 {
		parsed = sql.NullString{String: string(rule.ParsedLogic), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, q,
		rule.RuleID, rule.Jurisdiction, rule.ClauseNumber, rule.Title, rule.ClauseText,
		rule.ApprovedAt, rule.ApprovedBy, rule.SourceBatchID, rule.SourceIndex, parsed,
	)
	return err
}

func scanRule(scan func(dest ...any) error) (*domain.ApprovedRule, error) {
	var rule domain.ApprovedRule
	var parsed sql.NullString
	if err := scan(
		&rule.RuleID, &rule.Jurisdiction, &rule.ClauseNumber, &rule.Title, &rule.ClauseText,
		&rule.ApprovedAt, &rule.ApprovedBy, &rule.SourceBatchID, &rule.SourceIndex, &parsed,
	); err != nil {
		return nil, err
	}
	if parsed.Valid && parsed.String != "" {
		rule.ParsedLogic = json.RawMessage(parsed.String)
	}
	return &rule, nil
}

// Get point lookup by rule_id
func (r *RuleRepository) Get(ctx context.Context, ruleID string) (*domain.ApprovedRule, error) {
	const q = `
SELECT rule_id, jurisdiction, clause_number, title, clause_text,
       approved_at, approved_by, source_batch_id, source_index, parsed_logic
FROM approved_rules
WHERE rule_id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, ruleID)
	rule, err := scanRule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return rule, err
}

// Query is the indexed filter path. The WHERE clause mirrors
// rules.Filters.Match exactly: exact jurisdiction/clause match, then a
// case-insensitive OR substring search over title, clause_text,
// clause_number and rule_id.
func (r *RuleRepository) Query(ctx context.Context, f domain.Filters, limit int) ([]*domain.ApprovedRule, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
SELECT rule_id, jurisdiction, clause_number, title, clause_text,
       approved_at, approved_by, source_batch_id, source_index, parsed_logic
FROM approved_rules
WHERE 1=1`
	var args []any

	if f.Jurisdiction != "" {
		query += " AND jurisdiction = ?"
		args = append(args, f.Jurisdiction)
	}
	if f.ClauseNumber != "" {
		query += " AND clause_number = ?"
		args = append(args, f.ClauseNumber)
	}
	if f.Search != "" {
		needle := "%" + escapeLikePattern(strings.ToLower(f.Search)) + "%"
		query += ` AND (LOWER(title) LIKE ? OR LOWER(clause_text) LIKE ?
   OR LOWER(clause_number) LIKE ? OR LOWER(rule_id) LIKE ?)`
		args = append(args, needle, needle, needle, needle)
	}

	query += "\nORDER BY rule_id LIMIT ?;"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ApprovedRule
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// Count total rules in the index; 0 sends callers to the corpus scan
func (r *RuleRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM approved_rules;`).Scan(&n)
	return n, err
}

// ListVersions ruleset versions, terbaru dulu
func (r *RuleRepository) ListVersions(ctx context.Context) ([]*domain.Version, error) {
	const q = `
SELECT version_id, description, rule_count, created_at
FROM rule_versions
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Version
	for rows.Next() {
		var v domain.Version
		if err := rows.Scan(&v.VersionID, &v.Description, &v.RuleCount, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
