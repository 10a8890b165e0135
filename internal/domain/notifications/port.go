package notifications

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound when a notification id does not belong to the user.
var ErrNotFound = errors.New("notification not found")

// Repository port (interface untuk per-user mailbox)
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, userID string, id int64) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id int64) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
