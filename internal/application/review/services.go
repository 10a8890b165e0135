package review

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/civicworks/udcpr-compliance/internal/application"
	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	domaudit "github.com/civicworks/udcpr-compliance/internal/domain/audit"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/rules"
)

// QueryCache is what the review side needs from the rule-query cache:
// approving a candidate changes the corpus, so cached query results for
// rules must go.
type QueryCache interface {
	InvalidatePrefix(prefix string)
}

// Actor identitas principal dari layer auth
type Actor struct {
	TenantID string
	UserID   string
}

// Service implements use-cases untuk human review atas staged candidates.
// Service is designed to be used concurrently; batch updates are
// last-write-wins (no optimistic locking, known race window).
type Service struct {
	Batches  domain.BatchStore
	Approved domain.ApprovedStore
	Rules    domain.Repository
	Images   domain.ImageStore
	Parser   domain.LogicParser
	Audit    *auditapp.Service
	Cache    QueryCache
	Clock    application.Clock
}

// ListBatches metadata setiap batch di staging
func (s *Service) ListBatches(ctx context.Context) ([]domain.BatchInfo, error) {
	return s.Batches.ListBatches(ctx)
}

// Stats rekap staging + approved corpus
func (s *Service) Stats(ctx context.Context) (*domain.StagingStats, error) {
	batches, err := s.Batches.ListBatches(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := s.Approved.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, b := range batches {
		total += b.CandidateCount
	}
	return &domain.StagingStats{
		StagingBatches:  len(batches),
		ApprovedRules:   len(approved),
		TotalCandidates: total,
	}, nil
}

// ListCandidates returns the slice [(page-1)*limit, (page-1)*limit+limit)
// of the batch. Out-of-range pages yield an empty slice, not an error.
func (s *Service) ListCandidates(ctx context.Context, batchID string, page, limit int) (*domain.CandidatePage, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	candidates, err := s.Batches.LoadBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	total := len(candidates)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &domain.CandidatePage{
		Candidates: candidates[start:end],
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// UpdateCandidate replaces the entry at index in place. No concurrency
// token: two concurrent updates to the same (batch, index) race and the
// last write wins.
func (s *Service) UpdateCandidate(ctx context.Context, actor Actor, batchID string, index int, c domain.Candidate) error {
	candidates, err := s.Batches.LoadBatch(ctx, batchID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(candidates) {
		return domain.ErrInvalidIndex
	}
	candidates[index] = c

	if err := s.Batches.SaveBatch(ctx, batchID, candidates); err != nil {
		return err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "rule.update",
		ResourceType: "candidate",
		ResourceID:   fmt.Sprintf("%s#%d", batchID, index),
		Result:       domaudit.ResultSuccess,
	})
	return nil
}

// ApproveCandidate promotes the candidate at index into the canonical rule
// store: approved blob + indexed record + one audit entry. The candidate
// stays in its batch. rule_id is carried over from the candidate or
// generated as {jurisdiction}_{unix_ms}_{index}; two approvals of the same
// index within one millisecond can collide (known open issue).
func (s *Service) ApproveCandidate(ctx context.Context, actor Actor, batchID string, index int) (*domain.ApprovedRule, error) {
	candidates, err := s.Batches.LoadBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(candidates) {
		return nil, domain.ErrInvalidIndex
	}
	c := candidates[index]

	now := s.Clock.Now()
	ruleID := c.RuleID
	if ruleID == "" {
		jurisdiction := c.Jurisdiction
		if jurisdiction == "" {
			jurisdiction = "unknown"
		}
		ruleID = fmt.Sprintf("%s_%d_%d", jurisdiction, now.UnixMilli(), index)
	}

	rule := &domain.ApprovedRule{
		RuleID:        ruleID,
		Jurisdiction:  c.Jurisdiction,
		ClauseNumber:  c.ClauseNumber,
		Title:         c.Title,
		ClauseText:    c.ClauseText,
		ApprovedAt:    now,
		ApprovedBy:    actor.UserID,
		SourceBatchID: batchID,
		SourceIndex:   index,
		ParsedLogic:   c.ParsedLogic,
	}

	// blob corpus dulu, baru index; tidak ada rollback kalau index gagal
	if err := s.Approved.SaveApproved(ctx, rule); err != nil {
		return nil, err
	}
	if err := s.Rules.Save(ctx, rule); err != nil {
		return nil, fmt.Errorf("indexing approved rule %s: %w", ruleID, err)
	}

	if s.Cache != nil {
		s.Cache.InvalidatePrefix("rules:")
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "rule.approve",
		ResourceType: "rule",
		ResourceID:   ruleID,
		Result:       domaudit.ResultSuccess,
		Metadata:     map[string]any{"source_batch": batchID, "source_index": index},
	})
	return rule, nil
}

// RejectCandidate is purely advisory: one audit entry, nothing else. The
// candidate is not mutated or removed; the review flow never deletes.
func (s *Service) RejectCandidate(ctx context.Context, actor Actor, batchID string, index int, reason string) {
	if reason == "" {
		reason = "No reason provided"
	}
	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "rule.reject",
		ResourceType: "candidate",
		ResourceID:   fmt.Sprintf("%s#%d", batchID, index),
		Result:       domaudit.ResultSuccess,
		Metadata:     map[string]any{"reason": reason},
	})
}

// ParseCandidateLogic runs the LLM parser over the candidate's clause text
// and stores the structured logic back onto the candidate. On parser
// failure the candidate is untouched.
func (s *Service) ParseCandidateLogic(ctx context.Context, actor Actor, batchID string, index int) (*domain.Candidate, error) {
	candidates, err := s.Batches.LoadBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(candidates) {
		return nil, domain.ErrInvalidIndex
	}

	parsed, err := s.Parser.ParseClause(ctx, candidates[index].ClauseNumber, candidates[index].ClauseText)
	if err != nil {
		return nil, fmt.Errorf("parsing clause logic: %w", err)
	}
	candidates[index].ParsedLogic = parsed

	if err := s.Batches.SaveBatch(ctx, batchID, candidates); err != nil {
		return nil, err
	}

	s.Audit.Log(ctx, auditapp.Event{
		TenantID:     actor.TenantID,
		UserID:       actor.UserID,
		Action:       "rule.parse",
		ResourceType: "candidate",
		ResourceID:   fmt.Sprintf("%s#%d", batchID, index),
		Result:       domaudit.ResultSuccess,
	})
	c := candidates[index]
	return &c, nil
}

// PageImage ambil image halaman sumber dari blob storage
func (s *Service) PageImage(ctx context.Context, pdfName string, page int) ([]byte, error) {
	b, err := s.Images.PageImage(ctx, pdfName, page)
	if err != nil {
		log.Printf("review: page image %s/%d unavailable: %v", pdfName, page, err)
		return nil, err
	}
	return b, nil
}
