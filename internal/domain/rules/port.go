package rules

import (
	"context"
	"encoding/json"
)

// BatchStore port (interface untuk staging batches di blob storage)
type BatchStore interface {
	ListBatches(ctx context.Context) ([]BatchInfo, error)
	LoadBatch(ctx context.Context, batchID string) ([]Candidate, error)
	SaveBatch(ctx context.Context, batchID string, candidates []Candidate) error
}

// ApprovedStore port (interface untuk approved corpus di blob storage)
type ApprovedStore interface {
	SaveApproved(ctx context.Context, r *ApprovedRule) error
	ListApproved(ctx context.Context) ([]*ApprovedRule, error)
}

// Repository port (interface untuk indexed rule collection)
type Repository interface {
	Get(ctx context.Context, ruleID string) (*ApprovedRule, error)
	Query(ctx context.Context, f Filters, limit int) ([]*ApprovedRule, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, r *ApprovedRule) error
	ListVersions(ctx context.Context) ([]*Version, error)
}

// LogicParser port (interface untuk LLM parsing klausa → structured logic)
type LogicParser interface {
	ParseClause(ctx context.Context, clauseNumber, clauseText string) (json.RawMessage, error)
}

// ImageStore port (interface untuk page images hasil ingestion)
type ImageStore interface {
	PageImage(ctx context.Context, pdfName string, page int) ([]byte, error)
}
