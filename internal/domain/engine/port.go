package engine

import (
	"context"

	"github.com/civicworks/udcpr-compliance/internal/domain/projects"
)

// Source tells callers whether a result is authoritative or a local placeholder.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
)

// Outcome is the tagged evaluation result.
type Outcome struct {
	Source Source                    `json:"source"`
	Result projects.EvaluationResult `json:"result"`
}

// Client port (interface untuk rule engine eksternal)
type Client interface {
	Evaluate(ctx context.Context, in projects.EvaluationInput) (projects.EvaluationResult, error)
}
