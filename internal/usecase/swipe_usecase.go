package usecase

import (
	"context"
	"log"
	"time"

	"skill-barter/internal/events"
	"skill-barter/internal/infrastructure/directory"
	"skill-barter/internal/repository"

	"github.com/google/uuid"
)

// DailySwipeLimit caps distinct swipe targets per user per day. Repeated
// swipes on an already-judged target do not charge against it.
const DailySwipeLimit = 20

const creditsPerRightSwipe = 1

type SwipeInput struct {
	UserID       uuid.UUID
	SwipedUserID uuid.UUID
	Action       string
}

type SwipeResult struct {
	Matched bool
	Match   *repository.MatchRecord
}

type SwipeUsecase interface {
	Swipe(ctx context.Context, in SwipeInput) (SwipeResult, error)
}

type Swipe struct {
	swipes    repository.SwipeRepository
	matches   repository.MatchRepository
	publisher events.Publisher
	dir       directory.Client
	logger    *log.Logger
}

func NewSwipeUsecase(
	swipes repository.SwipeRepository,
	matches repository.MatchRepository,
	publisher events.Publisher,
	dir directory.Client,
	logger *log.Logger,
) *Swipe {
	if logger == nil {
		logger = log.Default()
	}
	return &Swipe{swipes: swipes, matches: matches, publisher: publisher, dir: dir, logger: logger}
}

// Swipe records a one-time LEFT/RIGHT decision. The pair's state machine is
// UNSWIPED -> {LEFT, RIGHT} and terminal: a second call on the same pair
// replays the stored outcome without consuming quota.
func (u *Swipe) Swipe(ctx context.Context, in SwipeInput) (SwipeResult, error) {
	if in.UserID == uuid.Nil || in.SwipedUserID == uuid.Nil {
		return SwipeResult{}, ErrInvalidInput
	}
	if in.UserID == in.SwipedUserID {
		return SwipeResult{}, ErrInvalidInput
	}
	action, ok := repository.ParseSwipeAction(in.Action)
	if !ok {
		return SwipeResult{}, ErrInvalidInput
	}

	existing, err := u.swipes.FindByPair(ctx, in.UserID, in.SwipedUserID)
	if err != nil {
		u.logger.Printf("[Swipe] lookup failed user=%s target=%s: %v", in.UserID, in.SwipedUserID, err)
		return SwipeResult{}, ErrInternal
	}
	if existing != nil {
		return u.replayExisting(ctx, *existing)
	}

	today := time.Now().UTC()
	count, err := u.swipes.CountByUserAndDate(ctx, in.UserID, today)
	if err != nil {
		u.logger.Printf("[Swipe] quota count failed user=%s: %v", in.UserID, err)
		return SwipeResult{}, ErrInternal
	}
	if count >= DailySwipeLimit {
		return SwipeResult{}, ErrQuotaExceeded
	}

	rec := repository.SwipeRecord{
		UserID:       in.UserID,
		SwipedUserID: in.SwipedUserID,
		Action:       action,
		SwipeDate:    today,
	}
	if err := u.swipes.Insert(ctx, rec); err != nil {
		if err == repository.ErrDuplicateSwipe {
			// Lost a concurrent insert race on this pair; the stored record
			// is authoritative.
			saved, ferr := u.swipes.FindByPair(ctx, in.UserID, in.SwipedUserID)
			if ferr != nil {
				u.logger.Printf("[Swipe] re-read after duplicate failed user=%s target=%s: %v", in.UserID, in.SwipedUserID, ferr)
				return SwipeResult{}, ErrInternal
			}
			if saved == nil {
				u.logger.Printf("[Swipe] duplicate reported but no record found user=%s target=%s", in.UserID, in.SwipedUserID)
				return SwipeResult{Matched: false}, nil
			}
			return u.replayExisting(ctx, *saved)
		}
		u.logger.Printf("[Swipe] insert failed user=%s target=%s: %v", in.UserID, in.SwipedUserID, err)
		return SwipeResult{}, ErrInternal
	}

	if action == repository.SwipeLeft {
		return SwipeResult{Matched: false}, nil
	}

	u.awardCredits(ctx, in.UserID)

	return u.checkAndCreateMatch(ctx, in.UserID, in.SwipedUserID)
}

// replayExisting handles the idempotent path: the stored direction decides the
// outcome, and a stored RIGHT re-runs the mutual check so a repeat call after
// a match still reports it.
func (u *Swipe) replayExisting(ctx context.Context, existing repository.SwipeRecord) (SwipeResult, error) {
	if existing.Action == repository.SwipeLeft {
		return SwipeResult{Matched: false}, nil
	}
	return u.checkAndCreateMatch(ctx, existing.UserID, existing.SwipedUserID)
}

// checkAndCreateMatch looks up the opposite-direction swipe and, when it is a
// RIGHT, ensures exactly one match record exists for the pair. The unique
// pair index in the store arbitrates concurrent mutual right-swipes.
func (u *Swipe) checkAndCreateMatch(ctx context.Context, userID, swipedUserID uuid.UUID) (SwipeResult, error) {
	opposite, err := u.swipes.FindByPair(ctx, swipedUserID, userID)
	if err != nil {
		u.logger.Printf("[Swipe] opposite lookup failed user=%s target=%s: %v", userID, swipedUserID, err)
		return SwipeResult{}, ErrInternal
	}
	if opposite == nil || opposite.Action != repository.SwipeRight {
		return SwipeResult{Matched: false}, nil
	}

	rec, created, err := u.matches.CreateIfAbsent(ctx, userID, swipedUserID, time.Now().UTC())
	if err != nil {
		u.logger.Printf("[Swipe] match create failed user=%s target=%s: %v", userID, swipedUserID, err)
		return SwipeResult{}, ErrInternal
	}

	if created {
		u.publishMatch(ctx, rec)
	}
	return SwipeResult{Matched: true, Match: &rec}, nil
}

func (u *Swipe) publishMatch(ctx context.Context, rec repository.MatchRecord) {
	if u.publisher == nil {
		return
	}
	evt := events.MatchEvent{
		User1ID:   rec.User1ID,
		User2ID:   rec.User2ID,
		MatchedAt: rec.MatchedDate,
	}
	if err := u.publisher.PublishMatch(ctx, evt); err != nil {
		// The match stays valid whether or not anyone hears about it.
		u.logger.Printf("[Swipe] match event publish failed user1=%s user2=%s: %v", rec.User1ID, rec.User2ID, err)
	}
}

func (u *Swipe) awardCredits(ctx context.Context, userID uuid.UUID) {
	if u.dir == nil {
		return
	}
	if err := u.dir.AddCredits(ctx, userID, creditsPerRightSwipe); err != nil {
		u.logger.Printf("[Swipe] credit award failed user=%s: %v", userID, err)
	}
}

var _ SwipeUsecase = (*Swipe)(nil)
