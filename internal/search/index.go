package search

import (
	"context"

	"skill-barter/internal/domain/profile"

	"github.com/google/uuid"
)

// Index is the searchable projection of user skill profiles. It may lag the
// user directory; the periodic sync bounds the staleness.
type Index interface {
	// GetProfile reports ok=false when the user is not indexed.
	GetProfile(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, bool, error)
	// PutProfile upserts a single profile into the live generation.
	PutProfile(ctx context.Context, p profile.SkillProfile) error
	// ReplaceAll swaps the whole index for the given profiles. Readers keep
	// seeing the previous generation until the swap.
	ReplaceAll(ctx context.Context, profiles []profile.SkillProfile) error
	// Search returns users whose offered skills intersect wanted OR whose
	// wanted skills intersect offered, up to limit. Empty inputs yield an
	// empty result without querying.
	Search(ctx context.Context, wanted, offered []string, limit int) ([]profile.SkillProfile, error)
}
