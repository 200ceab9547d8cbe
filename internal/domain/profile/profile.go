package profile

import (
	"strings"

	"github.com/google/uuid"
)

// SkillProfile is the projection of a user the matching core works with.
// Empty skill sets are valid but yield no candidates.
type SkillProfile struct {
	UserID        uuid.UUID
	UserName      string
	FirstName     string
	LastName      string
	Gender        string
	Email         string
	SkillsOffered []string
	SkillsWanted  []string
}

func (p SkillProfile) CleanOffered() []string {
	return cleanSkills(p.SkillsOffered)
}

func (p SkillProfile) CleanWanted() []string {
	return cleanSkills(p.SkillsWanted)
}

func (p SkillProfile) HasSkills() bool {
	return len(p.CleanOffered()) > 0 || len(p.CleanWanted()) > 0
}

func cleanSkills(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
