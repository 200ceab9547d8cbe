package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"skill-barter/internal/domain/matching"
	"skill-barter/internal/domain/profile"
	"skill-barter/internal/infrastructure/directory"
	"skill-barter/internal/repository"
	"skill-barter/internal/search"

	"github.com/google/uuid"
)

const (
	// TopMatchesLimit is the ranked-result cap per request.
	TopMatchesLimit = 20
	// candidatePoolLimit bounds how many candidates the search layer hands
	// to the ranker.
	candidatePoolLimit = 200
)

// CandidateSearcher is the degrading search path (index first, directory
// scan second). It never errors; total failure means an empty pool.
type CandidateSearcher interface {
	Search(ctx context.Context, wanted, offered []string, limit int) []profile.SkillProfile
}

type MatchHistoryItem struct {
	User1ID     uuid.UUID
	User2ID     uuid.UUID
	MatchedDate time.Time
	OtherUser   *profile.SkillProfile
}

type MatchUsecase interface {
	FindTopMatches(ctx context.Context, userID uuid.UUID) ([]matching.Ranked, error)
	MatchHistory(ctx context.Context, userID uuid.UUID) ([]MatchHistoryItem, error)
	Unmatch(ctx context.Context, user1ID, user2ID uuid.UUID) error
	MatchesCount(ctx context.Context) (int64, error)
}

type Match struct {
	index    search.Index
	searcher CandidateSearcher
	dir      directory.Client
	swipes   repository.SwipeRepository
	matches  repository.MatchRepository
	sync     SyncUsecase
	logger   *log.Logger
}

func NewMatchUsecase(
	index search.Index,
	searcher CandidateSearcher,
	dir directory.Client,
	swipes repository.SwipeRepository,
	matches repository.MatchRepository,
	sync SyncUsecase,
	logger *log.Logger,
) *Match {
	if logger == nil {
		logger = log.Default()
	}
	return &Match{
		index:    index,
		searcher: searcher,
		dir:      dir,
		swipes:   swipes,
		matches:  matches,
		sync:     sync,
		logger:   logger,
	}
}

// FindTopMatches resolves the actor's profile, excludes everyone already
// matched with or swiped on by the actor, then searches and ranks. A
// candidate who swiped on the actor but has not been judged back stays
// eligible.
func (u *Match) FindTopMatches(ctx context.Context, userID uuid.UUID) ([]matching.Ranked, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	actor, ok := u.resolveActor(ctx, userID)
	if !ok {
		return []matching.Ranked{}, nil
	}

	if !actor.HasSkills() {
		actor, ok = u.selfHeal(ctx, userID)
		if !ok || !actor.HasSkills() {
			u.logger.Printf("[Match] user %s has no skills, returning no candidates", userID)
			return []matching.Ranked{}, nil
		}
	}

	excluded, err := u.exclusionSet(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := u.searcher.Search(ctx, actor.CleanWanted(), actor.CleanOffered(), candidatePoolLimit)
	return matching.Rank(actor, candidates, excluded, TopMatchesLimit), nil
}

func (u *Match) MatchHistory(ctx context.Context, userID uuid.UUID) ([]MatchHistoryItem, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}

	recs, err := u.matches.MatchesFor(ctx, userID)
	if err != nil {
		u.logger.Printf("[Match] history query failed user=%s: %v", userID, err)
		return nil, ErrInternal
	}

	out := make([]MatchHistoryItem, 0, len(recs))
	for _, rec := range recs {
		item := MatchHistoryItem{
			User1ID:     rec.User1ID,
			User2ID:     rec.User2ID,
			MatchedDate: rec.MatchedDate,
		}
		otherID := rec.OtherUser(userID)
		if p, err := u.dir.GetProfile(ctx, otherID); err == nil {
			item.OtherUser = &p
		} else {
			u.logger.Printf("[Match] history profile fetch failed user=%s other=%s: %v", userID, otherID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// Unmatch deletes the pair's match record. Swipe history is immutable, so the
// two users stay excluded from each other's candidate lists afterwards.
func (u *Match) Unmatch(ctx context.Context, user1ID, user2ID uuid.UUID) error {
	if user1ID == uuid.Nil || user2ID == uuid.Nil {
		return ErrInvalidInput
	}
	if user1ID == user2ID {
		return ErrInvalidInput
	}

	deleted, err := u.matches.DeleteByPair(ctx, user1ID, user2ID)
	if err != nil {
		u.logger.Printf("[Match] unmatch failed user1=%s user2=%s: %v", user1ID, user2ID, err)
		return ErrInternal
	}
	if !deleted {
		return ErrMatchNotFound
	}
	return nil
}

func (u *Match) MatchesCount(ctx context.Context) (int64, error) {
	n, err := u.matches.Count(ctx)
	if err != nil {
		u.logger.Printf("[Match] count query failed: %v", err)
		return 0, ErrInternal
	}
	return n, nil
}

// resolveActor prefers the index; on a miss or index failure it asks the
// directory and writes the profile back to the index.
func (u *Match) resolveActor(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, bool) {
	p, ok, err := u.index.GetProfile(ctx, userID)
	if err != nil {
		u.logger.Printf("[Match] index unavailable for user %s, trying directory: %v", userID, err)
	}
	if ok {
		return p, true
	}

	p, derr := u.dir.GetProfile(ctx, userID)
	if derr != nil {
		if !errors.Is(derr, directory.ErrProfileNotFound) {
			u.logger.Printf("[Match] directory lookup failed for user %s: %v", userID, derr)
		}
		return profile.SkillProfile{}, false
	}
	if err := u.index.PutProfile(ctx, p); err != nil {
		u.logger.Printf("[Match] index backfill failed for user %s: %v", userID, err)
	}
	return p, true
}

// selfHeal re-syncs a skill-empty profile from the directory; stale index
// entries are the usual cause.
func (u *Match) selfHeal(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, bool) {
	u.logger.Printf("[Match] user %s indexed without skills, re-syncing from directory", userID)
	if err := u.sync.SyncUser(ctx, userID); err != nil {
		u.logger.Printf("[Match] re-sync failed for user %s: %v", userID, err)
		return profile.SkillProfile{}, false
	}
	p, ok, err := u.index.GetProfile(ctx, userID)
	if err != nil || !ok {
		return profile.SkillProfile{}, false
	}
	return p, true
}

// exclusionSet is everyone the actor already matched with plus everyone the
// actor swiped on, in either direction of decision.
func (u *Match) exclusionSet(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	excluded := make(map[uuid.UUID]struct{})

	recs, err := u.matches.MatchesFor(ctx, userID)
	if err != nil {
		u.logger.Printf("[Match] matched-user query failed user=%s: %v", userID, err)
		return nil, ErrInternal
	}
	for _, rec := range recs {
		excluded[rec.OtherUser(userID)] = struct{}{}
	}

	swiped, err := u.swipes.SwipedUserIDs(ctx, userID)
	if err != nil {
		u.logger.Printf("[Match] swiped-user query failed user=%s: %v", userID, err)
		return nil, ErrInternal
	}
	for _, id := range swiped {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}

var _ MatchUsecase = (*Match)(nil)
