package rules

import (
	"encoding/json"
	"strings"
	"time"
)

// ApprovedRule is a canonical rule. Write-once: never edited in place after approval.
type ApprovedRule struct {
	RuleID        string          `json:"rule_id"`
	Jurisdiction  string          `json:"jurisdiction"`
	ClauseNumber  string          `json:"clause_number"`
	Title         string          `json:"title"`
	ClauseText    string          `json:"clause_text"`
	ApprovedAt    time.Time       `json:"approved_at"`
	ApprovedBy    string          `json:"approved_by"`
	SourceBatchID string          `json:"source_batch_id"`
	SourceIndex   int             `json:"source_index"`
	ParsedLogic   json.RawMessage `json:"parsed_logic,omitempty"`
}

// Version identifies a published evaluation ruleset.
type Version struct {
	VersionID   string    `json:"version_id"`
	Description string    `json:"description,omitempty"`
	RuleCount   int       `json:"rule_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Filters untuk query rules. Category diterima dari caller tapi bukan
// bagian dari predicate (mengikuti perilaku kontrak query yang ada).
type Filters struct {
	Jurisdiction string
	ClauseNumber string
	Search       string
	Category     string
}

// Match is the one predicate shared by the indexed query path and the
// corpus-scan fallback. Both paths must agree on it for the same corpus.
func (f Filters) Match(r *ApprovedRule) bool {
	if f.Jurisdiction != "" && r.Jurisdiction != f.Jurisdiction {
		return false
	}
	if f.ClauseNumber != "" && r.ClauseNumber != f.ClauseNumber {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.ClauseText), needle) &&
			!strings.Contains(strings.ToLower(r.ClauseNumber), needle) &&
			!strings.Contains(strings.ToLower(r.RuleID), needle) {
			return false
		}
	}
	return true
}
