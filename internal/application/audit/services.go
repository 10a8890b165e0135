package audit

import (
	"context"
	"log"
	"time"

	"github.com/civicworks/udcpr-compliance/internal/application"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/audit"
)

// Event is what callers record; timestamp and defaults are filled in here.
type Event struct {
	TenantID     string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Result       domain.Result
	Metadata     map[string]any
}

// Service implements use-cases untuk audit trail
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Log appends exactly one entry per call. A failed append is logged
// operationally and swallowed: audit logging must never abort the
// operation that triggered it.
func (s *Service) Log(ctx context.Context, ev Event) {
	result := ev.Result
	if result == "" {
		result = domain.ResultSuccess
	}
	entry := &domain.Entry{
		Timestamp:    s.Clock.Now(),
		TenantID:     ev.TenantID,
		UserID:       ev.UserID,
		Action:       ev.Action,
		ResourceType: ev.ResourceType,
		ResourceID:   ev.ResourceID,
		Result:       result,
		Metadata:     ev.Metadata,
	}
	if err := s.Repo.Save(ctx, entry); err != nil {
		log.Printf("audit: failed to append entry action=%s tenant=%s: %v", ev.Action, ev.TenantID, err)
	}
}

// Trail query audit entries dengan filter + pagination
func (s *Service) Trail(ctx context.Context, f domain.Filters, opts domain.ListOptions) (*domain.Trail, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	return s.Repo.Trail(ctx, f, opts)
}

// Statistics rekap per action untuk satu tenant dalam satu periode
func (s *Service) Statistics(ctx context.Context, tenant string, start, end time.Time) (*domain.Statistics, error) {
	return s.Repo.Statistics(ctx, tenant, start, end)
}
