package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"skill-barter/internal/domain/profile"
	"skill-barter/internal/events"
	"skill-barter/internal/infrastructure/directory"
	"skill-barter/internal/repository"

	"github.com/google/uuid"
)

type pairKey struct {
	a, b uuid.UUID
}

type mockSwipeRepo struct {
	records    map[pairKey]repository.SwipeRecord
	countToday int
	countErr   error
	insertErr  error
	inserted   []repository.SwipeRecord
	swipedIDs  []uuid.UUID

	// missFirstLookups makes FindByPair report a miss for the first N calls,
	// simulating a concurrent insert racing this caller.
	missFirstLookups int
}

func newMockSwipeRepo() *mockSwipeRepo {
	return &mockSwipeRepo{records: map[pairKey]repository.SwipeRecord{}}
}

func (m *mockSwipeRepo) put(rec repository.SwipeRecord) {
	m.records[pairKey{rec.UserID, rec.SwipedUserID}] = rec
}

func (m *mockSwipeRepo) Insert(_ context.Context, rec repository.SwipeRecord) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, rec)
	m.put(rec)
	return nil
}

func (m *mockSwipeRepo) FindByPair(_ context.Context, userID, swipedUserID uuid.UUID) (*repository.SwipeRecord, error) {
	if m.missFirstLookups > 0 {
		m.missFirstLookups--
		return nil, nil
	}
	rec, ok := m.records[pairKey{userID, swipedUserID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *mockSwipeRepo) CountByUserAndDate(context.Context, uuid.UUID, time.Time) (int, error) {
	return m.countToday, m.countErr
}

func (m *mockSwipeRepo) SwipedUserIDs(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return m.swipedIDs, nil
}

type mockMatchRepo struct {
	existing  *repository.MatchRecord
	created   []repository.MatchRecord
	createErr error
	deleted   bool
	count     int64
	matches   []repository.MatchRecord
}

func (m *mockMatchRepo) FindByPair(context.Context, uuid.UUID, uuid.UUID) (*repository.MatchRecord, error) {
	return m.existing, nil
}

func (m *mockMatchRepo) CreateIfAbsent(_ context.Context, user1, user2 uuid.UUID, matchedDate time.Time) (repository.MatchRecord, bool, error) {
	if m.createErr != nil {
		return repository.MatchRecord{}, false, m.createErr
	}
	if m.existing != nil {
		return *m.existing, false, nil
	}
	rec := repository.MatchRecord{ID: uuid.New(), User1ID: user1, User2ID: user2, MatchedDate: matchedDate}
	m.created = append(m.created, rec)
	m.existing = &rec
	return rec, true, nil
}

func (m *mockMatchRepo) DeleteByPair(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return m.deleted, nil
}

func (m *mockMatchRepo) Count(context.Context) (int64, error) {
	return m.count, nil
}

func (m *mockMatchRepo) MatchesFor(context.Context, uuid.UUID) ([]repository.MatchRecord, error) {
	return m.matches, nil
}

type mockPublisher struct {
	events []events.MatchEvent
	err    error
}

func (m *mockPublisher) PublishMatch(_ context.Context, evt events.MatchEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, evt)
	return nil
}

type mockDirectory struct {
	profiles    map[uuid.UUID]profile.SkillProfile
	pages       [][]profile.SkillProfile
	getErr      error
	listErr     error
	creditCalls int
	creditErr   error
}

func (m *mockDirectory) GetProfile(_ context.Context, userID uuid.UUID) (profile.SkillProfile, error) {
	if m.getErr != nil {
		return profile.SkillProfile{}, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return profile.SkillProfile{}, directory.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockDirectory) ListProfiles(_ context.Context, page, _ int) (directory.ProfilePage, error) {
	if m.listErr != nil {
		return directory.ProfilePage{}, m.listErr
	}
	if page >= len(m.pages) {
		return directory.ProfilePage{}, nil
	}
	return directory.ProfilePage{
		Profiles: m.pages[page],
		HasNext:  page < len(m.pages)-1,
	}, nil
}

func (m *mockDirectory) AddCredits(context.Context, uuid.UUID, int) error {
	m.creditCalls++
	return m.creditErr
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSwipe_InvalidInput(t *testing.T) {
	uc := NewSwipeUsecase(newMockSwipeRepo(), &mockMatchRepo{}, &mockPublisher{}, &mockDirectory{}, testLogger())
	id := uuid.New()

	cases := []SwipeInput{
		{UserID: uuid.Nil, SwipedUserID: id, Action: "LEFT"},
		{UserID: id, SwipedUserID: uuid.Nil, Action: "LEFT"},
		{UserID: id, SwipedUserID: id, Action: "RIGHT"},
		{UserID: id, SwipedUserID: uuid.New(), Action: ""},
		{UserID: id, SwipedUserID: uuid.New(), Action: "MAYBE"},
	}
	for i, in := range cases {
		if _, err := uc.Swipe(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestSwipe_LeftRecordsWithoutMatch(t *testing.T) {
	swipes := newMockSwipeRepo()
	dir := &mockDirectory{}
	pub := &mockPublisher{}
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, pub, dir, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: uuid.New(), SwipedUserID: uuid.New(), Action: "left"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Matched {
		t.Fatalf("left swipe must not match")
	}
	if len(swipes.inserted) != 1 || swipes.inserted[0].Action != repository.SwipeLeft {
		t.Fatalf("expected one LEFT record, got %+v", swipes.inserted)
	}
	if dir.creditCalls != 0 {
		t.Fatalf("left swipe must not award credits")
	}
	if len(pub.events) != 0 {
		t.Fatalf("left swipe must not publish")
	}
}

func TestSwipe_RightWithoutReciprocal(t *testing.T) {
	swipes := newMockSwipeRepo()
	dir := &mockDirectory{}
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, &mockPublisher{}, dir, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: uuid.New(), SwipedUserID: uuid.New(), Action: "RIGHT"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Matched || res.Match != nil {
		t.Fatalf("expected no match, got %+v", res)
	}
	if dir.creditCalls != 1 {
		t.Fatalf("expected one credit award, got %d", dir.creditCalls)
	}
}

func TestSwipe_MutualRightCreatesMatchOnce(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()

	swipes := newMockSwipeRepo()
	swipes.put(repository.SwipeRecord{UserID: target, SwipedUserID: actor, Action: repository.SwipeRight})
	matches := &mockMatchRepo{}
	pub := &mockPublisher{}
	uc := NewSwipeUsecase(swipes, matches, pub, &mockDirectory{}, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: actor, SwipedUserID: target, Action: "RIGHT"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Matched || res.Match == nil {
		t.Fatalf("expected match, got %+v", res)
	}
	if len(matches.created) != 1 {
		t.Fatalf("expected exactly one created match, got %d", len(matches.created))
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected one match event, got %d", len(pub.events))
	}
	if !pub.events[0].MatchedAt.Equal(res.Match.MatchedDate) {
		t.Fatalf("event timestamp %v must carry the record's match date %v",
			pub.events[0].MatchedAt, res.Match.MatchedDate)
	}

	// Replay: same outcome, no new record, no second event, no quota charge.
	swipes.countToday = DailySwipeLimit
	res2, err := uc.Swipe(context.Background(), SwipeInput{UserID: actor, SwipedUserID: target, Action: "RIGHT"})
	if err != nil {
		t.Fatalf("unexpected err on replay: %v", err)
	}
	if !res2.Matched || res2.Match == nil || res2.Match.ID != res.Match.ID {
		t.Fatalf("replay must return the same match, got %+v", res2)
	}
	if len(swipes.inserted) != 1 {
		t.Fatalf("replay must not insert, got %d records", len(swipes.inserted))
	}
	if len(pub.events) != 1 {
		t.Fatalf("replay must not publish again, got %d events", len(pub.events))
	}
}

func TestSwipe_ExistingLeftReplaysOutcome(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()

	swipes := newMockSwipeRepo()
	swipes.put(repository.SwipeRecord{UserID: actor, SwipedUserID: target, Action: repository.SwipeLeft})
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, &mockPublisher{}, &mockDirectory{}, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: actor, SwipedUserID: target, Action: "RIGHT"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Matched {
		t.Fatalf("stored LEFT decides the outcome")
	}
	if len(swipes.inserted) != 0 {
		t.Fatalf("existing pair must not re-insert")
	}
}

func TestSwipe_QuotaExceeded(t *testing.T) {
	swipes := newMockSwipeRepo()
	swipes.countToday = DailySwipeLimit
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, &mockPublisher{}, &mockDirectory{}, testLogger())

	_, err := uc.Swipe(context.Background(), SwipeInput{UserID: uuid.New(), SwipedUserID: uuid.New(), Action: "RIGHT"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if len(swipes.inserted) != 0 {
		t.Fatalf("quota failure must not insert")
	}
}

func TestSwipe_ConcurrentInsertRaceRecovers(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()

	swipes := newMockSwipeRepo()
	// Another request wins the insert between our lookup and our insert.
	swipes.put(repository.SwipeRecord{UserID: actor, SwipedUserID: target, Action: repository.SwipeLeft})
	swipes.missFirstLookups = 1
	swipes.insertErr = repository.ErrDuplicateSwipe

	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, &mockPublisher{}, &mockDirectory{}, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: actor, SwipedUserID: target, Action: "LEFT"})
	if err != nil {
		t.Fatalf("race loser must not error, got %v", err)
	}
	if res.Matched {
		t.Fatalf("expected matched=false from the stored LEFT")
	}
}

func TestSwipe_PublishFailureSwallowed(t *testing.T) {
	actor := uuid.New()
	target := uuid.New()

	swipes := newMockSwipeRepo()
	swipes.put(repository.SwipeRecord{UserID: target, SwipedUserID: actor, Action: repository.SwipeRight})
	pub := &mockPublisher{err: errors.New("broker down")}
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, pub, &mockDirectory{}, testLogger())

	res, err := uc.Swipe(context.Background(), SwipeInput{UserID: actor, SwipedUserID: target, Action: "RIGHT"})
	if err != nil {
		t.Fatalf("publish failure must not fail the swipe: %v", err)
	}
	if !res.Matched {
		t.Fatalf("match must survive a publish failure")
	}
}

func TestSwipe_CreditFailureSwallowed(t *testing.T) {
	swipes := newMockSwipeRepo()
	dir := &mockDirectory{creditErr: errors.New("user service down")}
	uc := NewSwipeUsecase(swipes, &mockMatchRepo{}, &mockPublisher{}, dir, testLogger())

	_, err := uc.Swipe(context.Background(), SwipeInput{UserID: uuid.New(), SwipedUserID: uuid.New(), Action: "RIGHT"})
	if err != nil {
		t.Fatalf("credit failure must not fail the swipe: %v", err)
	}
}
