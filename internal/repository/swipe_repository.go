package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"skill-barter/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type SwipeAction string

const (
	SwipeLeft  SwipeAction = "LEFT"
	SwipeRight SwipeAction = "RIGHT"
)

func ParseSwipeAction(raw string) (SwipeAction, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(SwipeLeft):
		return SwipeLeft, true
	case string(SwipeRight):
		return SwipeRight, true
	default:
		return "", false
	}
}

// SwipeRecord rows are written once and never mutated or deleted.
type SwipeRecord struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SwipedUserID uuid.UUID
	Action       SwipeAction
	SwipeDate    time.Time
}

// ErrDuplicateSwipe maps the unique constraint on (user_id, swiped_user_id).
var ErrDuplicateSwipe = errors.New("swipe already recorded for pair")

type SwipeRepository interface {
	Insert(ctx context.Context, rec SwipeRecord) error
	FindByPair(ctx context.Context, userID, swipedUserID uuid.UUID) (*SwipeRecord, error)
	CountByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	SwipedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type PostgresSwipeRepository struct {
	db database.DB
}

func NewPostgresSwipeRepository(db database.DB) *PostgresSwipeRepository {
	return &PostgresSwipeRepository{db: db}
}

func (r *PostgresSwipeRepository) Insert(ctx context.Context, rec SwipeRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO swipe_history (id, user_id, swiped_user_id, action, swipe_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		rec.ID, rec.UserID, rec.SwipedUserID, string(rec.Action), dateOnly(rec.SwipeDate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSwipe
		}
		return err
	}
	return nil
}

func (r *PostgresSwipeRepository) FindByPair(ctx context.Context, userID, swipedUserID uuid.UUID) (*SwipeRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, swiped_user_id, action, swipe_date
		 FROM swipe_history
		 WHERE user_id = $1 AND swiped_user_id = $2`,
		userID, swipedUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var rec SwipeRecord
	var action string
	if err := rows.Scan(&rec.ID, &rec.UserID, &rec.SwipedUserID, &action, &rec.SwipeDate); err != nil {
		return nil, err
	}
	rec.Action = SwipeAction(action)
	return &rec, nil
}

func (r *PostgresSwipeRepository) CountByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM swipe_history WHERE user_id = $1 AND swipe_date = $2`,
		userID, dateOnly(date),
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresSwipeRepository) SwipedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT swiped_user_id FROM swipe_history WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
