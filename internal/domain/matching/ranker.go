package matching

import (
	"sort"
	"strings"

	"skill-barter/internal/domain/profile"

	"github.com/google/uuid"
)

const (
	// A candidate offering a skill the actor wants counts more than the
	// candidate's own need being met.
	offeredWeight = 10
	wantedWeight  = 5
)

type Ranked struct {
	Profile profile.SkillProfile
	Score   int
}

// Score rates a candidate against the actor. Skills are deduplicated, so a
// skill listed twice contributes once.
func Score(actor, candidate profile.SkillProfile) int {
	actorWanted := toSet(actor.CleanWanted())
	actorOffered := toSet(actor.CleanOffered())
	candOffered := toSet(candidate.CleanOffered())
	candWanted := toSet(candidate.CleanWanted())

	score := 0
	for skill := range candOffered {
		if _, ok := actorWanted[skill]; ok {
			score += offeredWeight
		}
	}
	for skill := range candWanted {
		if _, ok := actorOffered[skill]; ok {
			score += wantedWeight
		}
	}
	return score
}

// Rank drops the actor and anyone in excluded, scores the rest and returns the
// top limit entries by descending score. Equal scores order by ascending user
// id so the output is reproducible.
func Rank(actor profile.SkillProfile, candidates []profile.SkillProfile, excluded map[uuid.UUID]struct{}, limit int) []Ranked {
	if limit <= 0 {
		return nil
	}

	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == actor.UserID {
			continue
		}
		if _, ok := excluded[c.UserID]; ok {
			continue
		}
		ranked = append(ranked, Ranked{Profile: c, Score: Score(actor, c)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return strings.Compare(ranked[i].Profile.UserID.String(), ranked[j].Profile.UserID.String()) < 0
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MatchesAny reports whether the candidate satisfies the search predicate:
// offers something wanted, or wants something offered.
func MatchesAny(candidate profile.SkillProfile, wanted, offered []string) bool {
	candOffered := toSet(candidate.CleanOffered())
	candWanted := toSet(candidate.CleanWanted())

	for _, w := range wanted {
		if _, ok := candOffered[w]; ok {
			return true
		}
	}
	for _, o := range offered {
		if _, ok := candWanted[o]; ok {
			return true
		}
	}
	return false
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
