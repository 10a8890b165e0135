package notifications

import (
	"context"

	"github.com/civicworks/udcpr-compliance/internal/application"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
)

// Service implements use-cases untuk per-user mailbox
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Create stamps and stores one notification.
func (s *Service) Create(ctx context.Context, n *domain.Notification) error {
	if n.Type == "" {
		n.Type = domain.TypeInfo
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.Clock.Now()
	}
	return s.Repo.Save(ctx, n)
}

// List notifikasi user, reverse-chronological
func (s *Service) List(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Repo.ListByUser(ctx, userID, limit, unreadOnly)
}

// MarkAsRead toggles the read flag for one entry owned by the user.
func (s *Service) MarkAsRead(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	return s.Repo.MarkRead(ctx, userID, id)
}

// MarkAllAsRead marks every unread entry of the user.
func (s *Service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}

// Delete removes one entry owned by the user.
func (s *Service) Delete(ctx context.Context, userID string, id int64) error {
	return s.Repo.Delete(ctx, userID, id)
}

// UnreadCount jumlah notifikasi yang belum dibaca
func (s *Service) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.Repo.UnreadCount(ctx, userID)
}
