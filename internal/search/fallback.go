package search

import (
	"context"
	"errors"

	"skill-barter/internal/domain/matching"
	"skill-barter/internal/domain/profile"
	"skill-barter/internal/infrastructure/directory"
)

// DirectoryScan is the degraded search path: page through every profile in
// the user directory and apply the skill-intersection predicate in process.
// Functionally equivalent to the index, just slower.
type DirectoryScan struct {
	dir      directory.Client
	pageSize int
}

func NewDirectoryScan(dir directory.Client, pageSize int) *DirectoryScan {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &DirectoryScan{dir: dir, pageSize: pageSize}
}

func (s *DirectoryScan) Name() string { return "directory-scan" }

func (s *DirectoryScan) Search(ctx context.Context, wanted, offered []string, limit int) ([]profile.SkillProfile, error) {
	if s == nil || s.dir == nil {
		return nil, errors.New("nil directory client")
	}
	if len(wanted) == 0 && len(offered) == 0 {
		return []profile.SkillProfile{}, nil
	}
	if limit <= 0 {
		return []profile.SkillProfile{}, nil
	}

	out := make([]profile.SkillProfile, 0)
	for page := 0; ; page++ {
		pg, err := s.dir.ListProfiles(ctx, page, s.pageSize)
		if err != nil {
			return nil, err
		}
		for _, p := range pg.Profiles {
			if matching.MatchesAny(p, wanted, offered) {
				out = append(out, p)
				if len(out) >= limit {
					return out, nil
				}
			}
		}
		if !pg.HasNext || len(pg.Profiles) == 0 {
			break
		}
	}
	return out, nil
}
