package rules

import (
	"encoding/json"
	"time"
)

// SourcePDF menunjuk halaman asal klausa di dokumen regulasi
type SourcePDF struct {
	Filename string `json:"filename"`
	Page     int    `json:"page"`
}

// Candidate is a machine-extracted rule waiting for human review.
// It is identified by (batch_id, index) until it gets approved.
type Candidate struct {
	RuleID          string          `json:"rule_id,omitempty"`
	Jurisdiction    string          `json:"jurisdiction"`
	ClauseNumber    string          `json:"clause_number"`
	Title           string          `json:"title"`
	ClauseText      string          `json:"clause_text"`
	SourcePDF       SourcePDF       `json:"source_pdf"`
	Ambiguous       bool            `json:"ambiguous,omitempty"`
	AmbiguityReason string          `json:"ambiguity_reason,omitempty"`
	ParsedLogic     json.RawMessage `json:"parsed_logic,omitempty"`
}

// BatchInfo metadata untuk satu file batch di staging
type BatchInfo struct {
	BatchID        string    `json:"batch_id"`
	Size           int64     `json:"size"`
	ModifiedAt     time.Time `json:"modified_at"`
	CandidateCount int       `json:"candidate_count"`
}

// CandidatePage is one page of an ordered batch.
type CandidatePage struct {
	Candidates []Candidate `json:"candidates"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

// StagingStats rekap isi staging + approved corpus
type StagingStats struct {
	StagingBatches  int `json:"stagingFiles"`
	ApprovedRules   int `json:"approvedFiles"`
	TotalCandidates int `json:"totalCandidates"`
}
