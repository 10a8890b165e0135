package audit

import (
	"context"
	"time"
)

// Repository port (interface untuk append + query audit trail)
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	Trail(ctx context.Context, f Filters, opts ListOptions) (*Trail, error)
	Statistics(ctx context.Context, tenant string, start, end time.Time) (*Statistics, error)
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
