package repository

import (
	"context"
	"time"

	"skill-barter/internal/database"

	"github.com/google/uuid"
)

// MatchRecord pairs two users. At most one record exists per pair regardless
// of which user landed in user1_id; the pair index in the schema enforces it.
type MatchRecord struct {
	ID          uuid.UUID
	User1ID     uuid.UUID
	User2ID     uuid.UUID
	MatchedDate time.Time
}

func (m MatchRecord) OtherUser(userID uuid.UUID) uuid.UUID {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

type MatchRepository interface {
	// FindByPair looks the pair up in both orderings.
	FindByPair(ctx context.Context, a, b uuid.UUID) (*MatchRecord, error)
	// CreateIfAbsent inserts a match for the pair unless one already exists,
	// returning the surviving record and whether this call created it. Losing
	// a concurrent insert race counts as "already exists".
	CreateIfAbsent(ctx context.Context, user1, user2 uuid.UUID, matchedDate time.Time) (MatchRecord, bool, error)
	// DeleteByPair removes the pair's match in whichever ordering it was
	// stored. Returns false when no match exists.
	DeleteByPair(ctx context.Context, a, b uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	MatchesFor(ctx context.Context, userID uuid.UUID) ([]MatchRecord, error)
}

type PostgresMatchRepository struct {
	db database.DB
}

func NewPostgresMatchRepository(db database.DB) *PostgresMatchRepository {
	return &PostgresMatchRepository{db: db}
}

func (r *PostgresMatchRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*MatchRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user1_id, user2_id, matched_date
		 FROM match_history
		 WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)`,
		a, b,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var rec MatchRecord
	if err := rows.Scan(&rec.ID, &rec.User1ID, &rec.User2ID, &rec.MatchedDate); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresMatchRepository) CreateIfAbsent(ctx context.Context, user1, user2 uuid.UUID, matchedDate time.Time) (MatchRecord, bool, error) {
	rec := MatchRecord{
		ID:          uuid.New(),
		User1ID:     user1,
		User2ID:     user2,
		MatchedDate: dateOnly(matchedDate),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO match_history (id, user1_id, user2_id, matched_date)
		 VALUES ($1, $2, $3, $4)`,
		rec.ID, rec.User1ID, rec.User2ID, rec.MatchedDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// The pair index rejects a second row regardless of ordering,
			// whether the earlier row came from a replay or a concurrent
			// mutual swipe. The stored row wins.
			won, ferr := r.FindByPair(ctx, user1, user2)
			if ferr != nil {
				return MatchRecord{}, false, ferr
			}
			if won != nil {
				return *won, false, nil
			}
		}
		return MatchRecord{}, false, err
	}
	return rec, true, nil
}

func (r *PostgresMatchRepository) DeleteByPair(ctx context.Context, a, b uuid.UUID) (bool, error) {
	n, err := r.db.Exec(ctx,
		`DELETE FROM match_history
		 WHERE (user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1)`,
		a, b,
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresMatchRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM match_history`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresMatchRepository) MatchesFor(ctx context.Context, userID uuid.UUID) ([]MatchRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user1_id, user2_id, matched_date
		 FROM match_history
		 WHERE user1_id = $1 OR user2_id = $1
		 ORDER BY matched_date DESC, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]MatchRecord, 0)
	for rows.Next() {
		var rec MatchRecord
		if err := rows.Scan(&rec.ID, &rec.User1ID, &rec.User2ID, &rec.MatchedDate); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
