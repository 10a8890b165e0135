package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/udcpr-compliance/internal/domain/audit"
	"github.com/civicworks/udcpr-compliance/internal/domain/notifications"
)

type purgeSpy struct {
	cutoff time.Time
	calls  int
	err    error
}

func (p *purgeSpy) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	p.calls++
	p.cutoff = cutoff
	if p.err != nil {
		return 0, p.err
	}
	return 3, nil
}

type auditPurgeSpy struct{ purgeSpy }

func (a *auditPurgeSpy) Save(ctx context.Context, e *audit.Entry) error { return nil }

func (a *auditPurgeSpy) Trail(ctx context.Context, f audit.Filters, opts audit.ListOptions) (*audit.Trail, error) {
	return nil, nil
}

func (a *auditPurgeSpy) Statistics(ctx context.Context, tenant string, start, end time.Time) (*audit.Statistics, error) {
	return nil, nil
}

type notifPurgeSpy struct{ purgeSpy }

func (n *notifPurgeSpy) Save(ctx context.Context, m *notifications.Notification) error { return nil }

func (n *notifPurgeSpy) ListByUser(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*notifications.Notification, error) {
	return nil, nil
}

func (n *notifPurgeSpy) MarkRead(ctx context.Context, userID string, id int64) (*notifications.Notification, error) {
	return nil, notifications.ErrNotFound
}

func (n *notifPurgeSpy) MarkAllRead(ctx context.Context, userID string) error { return nil }

func (n *notifPurgeSpy) Delete(ctx context.Context, userID string, id int64) error { return nil }

func (n *notifPurgeSpy) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func TestSweepUsesRetentionCutoff(t *testing.T) {
	auditRepo := &auditPurgeSpy{}
	notifRepo := &notifPurgeSpy{}
	s := NewSweeper(auditRepo, notifRepo, 90)

	before := time.Now().AddDate(0, 0, -90)
	s.Sweep(context.Background())
	after := time.Now().AddDate(0, 0, -90)

	require.Equal(t, 1, auditRepo.calls)
	require.Equal(t, 1, notifRepo.calls)
	assert.False(t, auditRepo.cutoff.Before(before))
	assert.False(t, auditRepo.cutoff.After(after))
	assert.Equal(t, auditRepo.cutoff, notifRepo.cutoff)
}

func TestSweeperDefaultsDays(t *testing.T) {
	s := NewSweeper(&auditPurgeSpy{}, &notifPurgeSpy{}, 0)
	assert.Equal(t, DefaultDays, s.Days)

	s = NewSweeper(&auditPurgeSpy{}, &notifPurgeSpy{}, 30)
	assert.Equal(t, 30, s.Days)
}

func TestSweepContinuesPastAuditFailure(t *testing.T) {
	auditRepo := &auditPurgeSpy{}
	auditRepo.err = errors.New("purge failed")
	notifRepo := &notifPurgeSpy{}
	s := NewSweeper(auditRepo, notifRepo, 90)

	s.Sweep(context.Background())

	assert.Equal(t, 1, notifRepo.calls, "notification purge still runs")
}
