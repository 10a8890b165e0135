package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/udcpr-compliance/internal/application"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/notifications"
)

type memRepo struct {
	byID   map[int64]*domain.Notification
	nextID int64
	limit  int
}

func newMemRepo() *memRepo { return &memRepo{byID: map[int64]*domain.Notification{}, nextID: 1} }

func (m *memRepo) Save(ctx context.Context, n *domain.Notification) error {
	n.ID = m.nextID
	m.nextID++
	cp := *n
	m.byID[n.ID] = &cp
	return nil
}

func (m *memRepo) ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	m.limit = limit
	var out []*domain.Notification
	for _, n := range m.byID {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (m *memRepo) MarkRead(ctx context.Context, userID string, id int64) (*domain.Notification, error) {
	n, ok := m.byID[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNotFound
	}
	n.Read = true
	return n, nil
}

func (m *memRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range m.byID {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

func (m *memRepo) Delete(ctx context.Context, userID string, id int64) error {
	n, ok := m.byID[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.byID {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *memRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestCreateStampsDefaults(t *testing.T) {
	at := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	repo := newMemRepo()
	svc := &Service{Repo: repo, Clock: application.FixedClock{T: at}}

	n := &domain.Notification{UserID: "dev-1", Title: "Hello", Message: "World"}
	require.NoError(t, svc.Create(context.Background(), n))

	assert.Equal(t, domain.TypeInfo, n.Type, "type defaults to info")
	assert.Equal(t, at, n.CreatedAt)

	// explicit type kept as-is
	n2 := &domain.Notification{UserID: "dev-1", Type: domain.TypeError}
	require.NoError(t, svc.Create(context.Background(), n2))
	assert.Equal(t, domain.TypeError, n2.Type)
}

func TestMailboxIsolation(t *testing.T) {
	repo := newMemRepo()
	svc := &Service{Repo: repo, Clock: application.SystemClock{}}
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.Notification{UserID: "dev-1", Title: "A"}))
	require.NoError(t, svc.Create(ctx, &domain.Notification{UserID: "dev-2", Title: "B"}))

	// a user can only touch their own entries
	_, err := svc.MarkAsRead(ctx, "dev-2", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "dev-2", 1), domain.ErrNotFound)

	n, err := svc.MarkAsRead(ctx, "dev-1", 1)
	require.NoError(t, err)
	assert.True(t, n.Read)
}

func TestUnreadFlow(t *testing.T) {
	repo := newMemRepo()
	svc := &Service{Repo: repo, Clock: application.SystemClock{}}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(ctx, &domain.Notification{UserID: "dev-1"}))
	}

	count, err := svc.UnreadCount(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.NoError(t, svc.MarkAllAsRead(ctx, "dev-1"))
	count, err = svc.UnreadCount(ctx, "dev-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListDefaultLimit(t *testing.T) {
	repo := newMemRepo()
	svc := &Service{Repo: repo, Clock: application.SystemClock{}}

	_, err := svc.List(context.Background(), "dev-1", 0, false)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.limit)
}
