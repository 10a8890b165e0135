package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicworks/udcpr-compliance/internal/application"
	auditapp "github.com/civicworks/udcpr-compliance/internal/application/audit"
	domaudit "github.com/civicworks/udcpr-compliance/internal/domain/audit"
	domain "github.com/civicworks/udcpr-compliance/internal/domain/rules"
)

// --- fakes ---

type fakeBatchStore struct {
	batches map[string][]domain.Candidate
	saves   int
}

func (f *fakeBatchStore) ListBatches(ctx context.Context) ([]domain.BatchInfo, error) {
	var out []domain.BatchInfo
	for id, cands := range f.batches {
		out = append(out, domain.BatchInfo{BatchID: id, CandidateCount: len(cands)})
	}
	return out, nil
}

func (f *fakeBatchStore) LoadBatch(ctx context.Context, batchID string) ([]domain.Candidate, error) {
	cands, ok := f.batches[batchID]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	out := make([]domain.Candidate, len(cands))
	copy(out, cands)
	return out, nil
}

func (f *fakeBatchStore) SaveBatch(ctx context.Context, batchID string, candidates []domain.Candidate) error {
	f.batches[batchID] = candidates
	f.saves++
	return nil
}

type fakeApprovedStore struct {
	rules []*domain.ApprovedRule
	err   error
}

func (f *fakeApprovedStore) SaveApproved(ctx context.Context, r *domain.ApprovedRule) error {
	if f.err != nil {
		return f.err
	}
	f.rules = append(f.rules, r)
	return nil
}

func (f *fakeApprovedStore) ListApproved(ctx context.Context) ([]*domain.ApprovedRule, error) {
	return f.rules, nil
}

type fakeRuleRepo struct {
	saved []*domain.ApprovedRule
	err   error
}

func (f *fakeRuleRepo) Get(ctx context.Context, ruleID string) (*domain.ApprovedRule, error) {
	for _, r := range f.saved {
		if r.RuleID == ruleID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRuleRepo) Query(ctx context.Context, fl domain.Filters, limit int) ([]*domain.ApprovedRule, error) {
	return nil, nil
}

func (f *fakeRuleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.saved)), nil
}

func (f *fakeRuleRepo) Save(ctx context.Context, r *domain.ApprovedRule) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRuleRepo) ListVersions(ctx context.Context) ([]*domain.Version, error) {
	return nil, nil
}

type spyAuditRepo struct {
	entries []*domaudit.Entry
}

func (s *spyAuditRepo) Save(ctx context.Context, e *domaudit.Entry) error {
	s.entries = append(s.entries, e)
	return nil
}

func (s *spyAuditRepo) Trail(ctx context.Context, f domaudit.Filters, opts domaudit.ListOptions) (*domaudit.Trail, error) {
	return &domaudit.Trail{}, nil
}

func (s *spyAuditRepo) Statistics(ctx context.Context, tenant string, start, end time.Time) (*domaudit.Statistics, error) {
	return &domaudit.Statistics{}, nil
}

func (s *spyAuditRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type spyCache struct {
	invalidated []string
}

func (s *spyCache) InvalidatePrefix(prefix string) {
	s.invalidated = append(s.invalidated, prefix)
}

type fakeParser struct {
	logic json.RawMessage
	err   error
	calls int
}

func (f *fakeParser) ParseClause(ctx context.Context, clauseNumber, clauseText string) (json.RawMessage, error) {
	f.calls++
	return f.logic, f.err
}

func candidateBatch(n int) []domain.Candidate {
	out := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Candidate{
			Jurisdiction: "maharashtra_udcpr",
			ClauseNumber: fmt.Sprintf("6.%d", i+1),
			Title:        fmt.Sprintf("Clause %d", i+1),
			ClauseText:   "text",
		})
	}
	return out
}

func newTestService(batches *fakeBatchStore, approved *fakeApprovedStore, rules *fakeRuleRepo, audit *spyAuditRepo, cache *spyCache, at time.Time) *Service {
	svc := &Service{
		Batches:  batches,
		Approved: approved,
		Rules:    rules,
		Audit:    &auditapp.Service{Repo: audit, Clock: application.FixedClock{T: at}},
		Clock:    application.FixedClock{T: at},
	}
	if cache != nil {
		svc.Cache = cache
	}
	return svc
}

// --- tests ---

func TestListCandidatesPagination(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(3),
	}}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())
	ctx := context.Background()

	page, err := svc.ListCandidates(ctx, "batch_001.json", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Candidates, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalPages)

	page, err = svc.ListCandidates(ctx, "batch_001.json", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Candidates, 1)
	assert.Equal(t, "6.3", page.Candidates[0].ClauseNumber)

	// out-of-range page: empty slice, not an error
	page, err = svc.ListCandidates(ctx, "batch_001.json", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Candidates)
	assert.Equal(t, 3, page.Total)

	// zero page/limit fall back to defaults 1 and 10
	page, err = svc.ListCandidates(ctx, "batch_001.json", 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Candidates, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListCandidatesUnknownBatch(t *testing.T) {
	svc := newTestService(&fakeBatchStore{batches: map[string][]domain.Candidate{}}, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())

	_, err := svc.ListCandidates(context.Background(), "missing.json", 1, 10)
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)
}

func TestUpdateCandidate(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(2),
	}}
	audit := &spyAuditRepo{}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, audit, nil, time.Now())
	ctx := context.Background()
	actor := Actor{TenantID: "pune", UserID: "officer-1"}

	edited := domain.Candidate{Jurisdiction: "maharashtra_udcpr", ClauseNumber: "6.1", Title: "Edited", ClauseText: "new text"}
	require.NoError(t, svc.UpdateCandidate(ctx, actor, "batch_001.json", 1, edited))

	assert.Equal(t, "Edited", batches.batches["batch_001.json"][1].Title)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "rule.update", audit.entries[0].Action)
	assert.Equal(t, "batch_001.json#1", audit.entries[0].ResourceID)
}

func TestUpdateCandidateInvalidIndex(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(2),
	}}
	audit := &spyAuditRepo{}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, audit, nil, time.Now())
	ctx := context.Background()
	actor := Actor{TenantID: "pune", UserID: "officer-1"}

	assert.ErrorIs(t, svc.UpdateCandidate(ctx, actor, "batch_001.json", 2, domain.Candidate{}), domain.ErrInvalidIndex)
	assert.ErrorIs(t, svc.UpdateCandidate(ctx, actor, "batch_001.json", -1, domain.Candidate{}), domain.ErrInvalidIndex)
	assert.Zero(t, batches.saves)
	assert.Empty(t, audit.entries)
}

func TestApproveCandidateGeneratesRuleID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(3),
	}}
	approved := &fakeApprovedStore{}
	repo := &fakeRuleRepo{}
	audit := &spyAuditRepo{}
	cache := &spyCache{}
	svc := newTestService(batches, approved, repo, audit, cache, at)
	ctx := context.Background()
	actor := Actor{TenantID: "pune", UserID: "officer-1"}

	rule, err := svc.ApproveCandidate(ctx, actor, "batch_001.json", 1)
	require.NoError(t, err)

	wantID := fmt.Sprintf("maharashtra_udcpr_%d_1", at.UnixMilli())
	assert.Equal(t, wantID, rule.RuleID)
	assert.Equal(t, "officer-1", rule.ApprovedBy)
	assert.Equal(t, at, rule.ApprovedAt)
	assert.Equal(t, "batch_001.json", rule.SourceBatchID)
	assert.Equal(t, 1, rule.SourceIndex)

	// promoted to both stores, candidate left in its batch
	require.Len(t, approved.rules, 1)
	require.Len(t, repo.saved, 1)
	assert.Len(t, batches.batches["batch_001.json"], 3)

	assert.Equal(t, []string{"rules:"}, cache.invalidated)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "rule.approve", audit.entries[0].Action)
	assert.Equal(t, wantID, audit.entries[0].ResourceID)
}

func TestApproveCandidateCarriesExistingRuleID(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": {{RuleID: "custom_rule_42", Jurisdiction: "mumbai_dcpr"}},
	}}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())

	rule, err := svc.ApproveCandidate(context.Background(), Actor{}, "batch_001.json", 0)
	require.NoError(t, err)
	assert.Equal(t, "custom_rule_42", rule.RuleID)
}

func TestApproveCandidateUnknownJurisdiction(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": {{Title: "No jurisdiction set"}},
	}}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, at)

	rule, err := svc.ApproveCandidate(context.Background(), Actor{}, "batch_001.json", 0)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("unknown_%d_0", at.UnixMilli()), rule.RuleID)
}

func TestApproveCandidateBlobFailureStopsIndexing(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(1),
	}}
	approved := &fakeApprovedStore{err: errors.New("minio down")}
	repo := &fakeRuleRepo{}
	audit := &spyAuditRepo{}
	svc := newTestService(batches, approved, repo, audit, nil, time.Now())

	_, err := svc.ApproveCandidate(context.Background(), Actor{}, "batch_001.json", 0)
	require.Error(t, err)
	assert.Empty(t, repo.saved)
	assert.Empty(t, audit.entries)
}

func TestRejectCandidateIsAdvisory(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(2),
	}}
	audit := &spyAuditRepo{}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, audit, nil, time.Now())
	actor := Actor{TenantID: "pune", UserID: "officer-1"}

	svc.RejectCandidate(context.Background(), actor, "batch_001.json", 0, "duplicate of 6.2")

	// nothing mutated or removed
	assert.Len(t, batches.batches["batch_001.json"], 2)
	assert.Zero(t, batches.saves)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "rule.reject", audit.entries[0].Action)
	assert.Equal(t, "duplicate of 6.2", audit.entries[0].Metadata["reason"])
}

func TestRejectCandidateDefaultReason(t *testing.T) {
	audit := &spyAuditRepo{}
	svc := newTestService(&fakeBatchStore{batches: map[string][]domain.Candidate{}}, &fakeApprovedStore{}, &fakeRuleRepo{}, audit, nil, time.Now())

	svc.RejectCandidate(context.Background(), Actor{}, "batch_001.json", 0, "")

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "No reason provided", audit.entries[0].Metadata["reason"])
}

func TestParseCandidateLogic(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(1),
	}}
	parser := &fakeParser{logic: json.RawMessage(`{"parameter":"fsi","constraint":{"max":1.1}}`)}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())
	svc.Parser = parser

	cand, err := svc.ParseCandidateLogic(context.Background(), Actor{}, "batch_001.json", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	assert.JSONEq(t, `{"parameter":"fsi","constraint":{"max":1.1}}`, string(cand.ParsedLogic))
	assert.JSONEq(t, `{"parameter":"fsi","constraint":{"max":1.1}}`, string(batches.batches["batch_001.json"][0].ParsedLogic))
}

func TestParseCandidateLogicFailureKeepsCandidate(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(1),
	}}
	svc := newTestService(batches, &fakeApprovedStore{}, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())
	svc.Parser = &fakeParser{err: errors.New("model overloaded")}

	_, err := svc.ParseCandidateLogic(context.Background(), Actor{}, "batch_001.json", 0)
	require.Error(t, err)
	assert.Nil(t, batches.batches["batch_001.json"][0].ParsedLogic)
	assert.Zero(t, batches.saves)
}

func TestStats(t *testing.T) {
	batches := &fakeBatchStore{batches: map[string][]domain.Candidate{
		"batch_001.json": candidateBatch(3),
		"batch_002.json": candidateBatch(2),
	}}
	approved := &fakeApprovedStore{rules: []*domain.ApprovedRule{{RuleID: "a"}, {RuleID: "b"}}}
	svc := newTestService(batches, approved, &fakeRuleRepo{}, &spyAuditRepo{}, nil, time.Now())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.StagingBatches)
	assert.Equal(t, 2, stats.ApprovedRules)
	assert.Equal(t, 5, stats.TotalCandidates)
}
