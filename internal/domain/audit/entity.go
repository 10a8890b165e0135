package audit

import "time"

// Result enum
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
)

// Entry is one append-only audit record. Never updated after creation;
// purged after the retention window.
type Entry struct {
	ID           int64          `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	TenantID     string         `json:"tenant_id"`
	UserID       string         `json:"user_id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Result       Result         `json:"result"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Filters untuk query audit trail. Zero values berarti tidak difilter.
type Filters struct {
	TenantID     string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Start        *time.Time // inclusive
	End          *time.Time // inclusive
}

// ListOptions pagination + sort untuk trail queries
type ListOptions struct {
	Limit     int
	Skip      int
	Ascending bool
}

// Trail hasil query dengan pagination metadata
type Trail struct {
	Entries []*Entry `json:"entries"`
	Total   int64    `json:"total"`
	HasMore bool     `json:"has_more"`
}

// ActionStats per-action counts dengan success/failure breakdown
type ActionStats struct {
	Action       string `json:"action"`
	Count        int64  `json:"count"`
	SuccessCount int64  `json:"success_count"`
	FailureCount int64  `json:"failure_count"`
}

// Statistics rekap audit untuk satu tenant dalam satu periode
type Statistics struct {
	TotalActions int64          `json:"total_actions"`
	ByAction     []*ActionStats `json:"actions_by_type"`
	PeriodStart  time.Time      `json:"period_start"`
	PeriodEnd    time.Time      `json:"period_end"`
}
