package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Save insert satu notifikasi baru
func (r *NotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	const q = `
INSERT INTO notifications
(user_id, tenant_id, title, message, type, is_read, link, created_at)
VALUES (?,?,?,?,?,?,?,?);
`
	created := n.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q,
		stringOrDash(n.UserID), n.TenantID, n.Title, n.Message, n.Type, n.Read, n.Link, created,
	)
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil {
		n.ID = id
	}
	return nil
}

// ListByUser mailbox user, terbaru dulu
func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `
SELECT id, user_id, tenant_id, title, message, type, is_read, link, created_at
FROM notifications
WHERE user_id=?`
	if unreadOnly {
		q += " AND is_read=0"
	}
	q += "\nORDER BY created_at DESC, id DESC LIMIT ?;"

	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.TenantID, &n.Title, &n.Message, &n.Type, &n.Read, &n.Link, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

// MarkRead set read flag untuk satu entry milik user
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=1 WHERE user_id=? AND id=?;`, userID, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, domain.ErrNotFound
	}

	const q = `
SELECT id, user_id, tenant_id, title, message, type, is_read, link, created_at
FROM notifications WHERE user_id=? AND id=? LIMIT 1;
`
	row := r.db.QueryRowContext(ctx, q, userID, id)
	var out domain.Notification
	if err := row.Scan(
		&out.ID, &out.UserID, &out.TenantID, &out.Title, &out.Message, &out.Type, &out.Read, &out.Link, &out.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

// MarkAllRead set read flag untuk semua entry user yang belum dibaca
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0;`, userID)
	return err
}

// Delete hapus satu entry milik user
func (r *NotificationRepository) Delete(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id=? AND id=?;`, userID, id)
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

// UnreadCount jumlah entry user yang belum dibaca
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0;`, userID).Scan(&n)
	return n, err
}

// PurgeBefore hapus entries lebih tua dari cutoff, read atau belum
func (r *NotificationRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE created_at < ?;`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
