package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/civicworks/udcpr-compliance/internal/domain/rules"
)

// queryLimit is the hard cap on query results, both paths.
const queryLimit = 100

// Cache abstraction untuk response cache (get/set/invalidate-by-prefix),
// lifetime terikat ke process start, bukan global state.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	InvalidatePrefix(prefix string)
}

// Service implements use-cases untuk canonical rule store
type Service struct {
	Repo   domain.Repository
	Corpus domain.ApprovedStore
	Cache  Cache
}

// Get point lookup by rule_id
func (s *Service) Get(ctx context.Context, ruleID string) (*domain.ApprovedRule, error) {
	return s.Repo.Get(ctx, ruleID)
}

// Query filters the indexed collection when one exists; otherwise it
// scans the approved corpus and applies the identical predicate. Both
// paths must produce the same filtered set for the same corpus.
func (s *Service) Query(ctx context.Context, f domain.Filters, limit int) ([]*domain.ApprovedRule, error) {
	if limit <= 0 || limit > queryLimit {
		limit = queryLimit
	}

	key := cacheKey(f, limit)
	if s.Cache != nil {
		if b, ok := s.Cache.Get(key); ok {
			var cached []*domain.ApprovedRule
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var (
		out []*domain.ApprovedRule
		err error
	)
	count, cerr := s.Repo.Count(ctx)
	if cerr != nil || count == 0 {
		if cerr != nil {
			log.Printf("rules: index unavailable, scanning approved corpus: %v", cerr)
		}
		out, err = s.scanCorpus(ctx, f, limit)
	} else {
		out, err = s.Repo.Query(ctx, f, limit)
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.ApprovedRule{}
	}

	if s.Cache != nil {
		if b, merr := json.Marshal(out); merr == nil {
			s.Cache.Set(key, b)
		}
	}
	return out, nil
}

// scanCorpus fallback path: load semua approved rule lalu filter in-memory
func (s *Service) scanCorpus(ctx context.Context, f domain.Filters, limit int) ([]*domain.ApprovedRule, error) {
	all, err := s.Corpus.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ApprovedRule, 0, limit)
	for _, r := range all {
		if !f.Match(r) {
			continue
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Versions daftar ruleset versions, terbaru dulu
func (s *Service) Versions(ctx context.Context) ([]*domain.Version, error) {
	return s.Repo.ListVersions(ctx)
}

func cacheKey(f domain.Filters, limit int) string {
	return fmt.Sprintf("rules:q:%s|%s|%s|%s|%d", f.Jurisdiction, f.ClauseNumber, f.Search, f.Category, limit)
}
