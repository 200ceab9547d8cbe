package search

import (
	"context"
	"log"

	"skill-barter/internal/domain/profile"
)

// Strategy is one way of answering a skill-intersection query.
type Strategy interface {
	Name() string
	Search(ctx context.Context, wanted, offered []string, limit int) ([]profile.SkillProfile, error)
}

// Searcher tries strategies in order, each behind its own failure boundary.
// When every strategy fails the result is empty, not an error: a stale-empty
// read beats failing the whole request.
type Searcher struct {
	strategies []Strategy
	logger     *log.Logger
}

func NewSearcher(logger *log.Logger, strategies ...Strategy) *Searcher {
	return &Searcher{strategies: strategies, logger: logger}
}

func (s *Searcher) Search(ctx context.Context, wanted, offered []string, limit int) []profile.SkillProfile {
	if s == nil {
		return []profile.SkillProfile{}
	}
	if len(wanted) == 0 && len(offered) == 0 {
		return []profile.SkillProfile{}
	}

	for _, st := range s.strategies {
		res, err := st.Search(ctx, wanted, offered, limit)
		if err == nil {
			return res
		}
		if s.logger != nil {
			s.logger.Printf("[Search] strategy %s failed, trying next: %v", st.Name(), err)
		}
	}

	if s.logger != nil {
		s.logger.Printf("[Search] all strategies failed, serving degraded empty result")
	}
	return []profile.SkillProfile{}
}

// IndexStrategy adapts an Index to the Strategy contract.
type IndexStrategy struct {
	Index Index
}

func (s IndexStrategy) Name() string { return "skill-index" }

func (s IndexStrategy) Search(ctx context.Context, wanted, offered []string, limit int) ([]profile.SkillProfile, error) {
	return s.Index.Search(ctx, wanted, offered, limit)
}
