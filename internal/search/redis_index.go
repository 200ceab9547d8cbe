package search

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"skill-barter/internal/domain/matching"
	"skill-barter/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const currentGenKey = "skillidx:current"

// RedisIndex keeps profiles plus inverted skill sets under a generation
// prefix. A rebuild writes a fresh generation and flips the pointer key, so
// readers never observe a half-built index; the old generation's keys are
// swept afterwards.
type RedisIndex struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedisIndex(client *redis.Client, logger *log.Logger) *RedisIndex {
	return &RedisIndex{client: client, logger: logger}
}

type indexedProfile struct {
	UserID        uuid.UUID `json:"user_id"`
	UserName      string    `json:"user_name"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Gender        string    `json:"gender"`
	Email         string    `json:"email"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
}

func (x *RedisIndex) GetProfile(ctx context.Context, userID uuid.UUID) (profile.SkillProfile, bool, error) {
	if x == nil || x.client == nil {
		return profile.SkillProfile{}, false, errors.New("nil index client")
	}

	gen, err := x.currentGen(ctx)
	if err != nil {
		return profile.SkillProfile{}, false, err
	}
	if gen == "" {
		return profile.SkillProfile{}, false, nil
	}

	b, err := x.client.Get(ctx, profileKey(gen, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return profile.SkillProfile{}, false, nil
		}
		return profile.SkillProfile{}, false, err
	}

	var doc indexedProfile
	if err := json.Unmarshal(b, &doc); err != nil {
		return profile.SkillProfile{}, false, err
	}
	return doc.toProfile(), true, nil
}

func (x *RedisIndex) PutProfile(ctx context.Context, p profile.SkillProfile) error {
	if x == nil || x.client == nil {
		return errors.New("nil index client")
	}
	if p.UserID == uuid.Nil {
		return errors.New("profile without user id")
	}

	gen, err := x.currentGen(ctx)
	if err != nil {
		return err
	}
	if gen == "" {
		gen = uuid.NewString()
		ok, err := x.client.SetNX(ctx, currentGenKey, gen, 0).Result()
		if err != nil {
			return err
		}
		if !ok {
			if gen, err = x.currentGen(ctx); err != nil {
				return err
			}
		}
	}

	pipe := x.client.Pipeline()
	writeProfile(pipe, ctx, gen, p)
	_, err = pipe.Exec(ctx)
	return err
}

func (x *RedisIndex) ReplaceAll(ctx context.Context, profiles []profile.SkillProfile) error {
	if x == nil || x.client == nil {
		return errors.New("nil index client")
	}

	oldGen, err := x.currentGen(ctx)
	if err != nil {
		return err
	}

	gen := uuid.NewString()
	pipe := x.client.Pipeline()
	for _, p := range profiles {
		if p.UserID == uuid.Nil {
			continue
		}
		writeProfile(pipe, ctx, gen, p)
	}
	pipe.Set(ctx, currentGenKey, gen, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if oldGen != "" && oldGen != gen {
		x.sweepGeneration(ctx, oldGen)
	}
	return nil
}

func (x *RedisIndex) Search(ctx context.Context, wanted, offered []string, limit int) ([]profile.SkillProfile, error) {
	if x == nil || x.client == nil {
		return nil, errors.New("nil index client")
	}
	if len(wanted) == 0 && len(offered) == 0 {
		return []profile.SkillProfile{}, nil
	}
	if limit <= 0 {
		return []profile.SkillProfile{}, nil
	}

	gen, err := x.currentGen(ctx)
	if err != nil {
		return nil, err
	}
	if gen == "" {
		return []profile.SkillProfile{}, nil
	}

	keys := make([]string, 0, len(wanted)+len(offered))
	for _, w := range wanted {
		keys = append(keys, skillKey(gen, "offered", w))
	}
	for _, o := range offered {
		keys = append(keys, skillKey(gen, "wanted", o))
	}

	ids, err := x.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]profile.SkillProfile, 0, len(ids))
	for _, raw := range ids {
		if len(out) >= limit {
			break
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		p, ok, err := x.getInGen(ctx, gen, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		// Set members go stale when a re-indexed profile drops a skill;
		// re-check against the stored profile.
		if !matching.MatchesAny(p, wanted, offered) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (x *RedisIndex) getInGen(ctx context.Context, gen string, userID uuid.UUID) (profile.SkillProfile, bool, error) {
	b, err := x.client.Get(ctx, profileKey(gen, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return profile.SkillProfile{}, false, nil
		}
		return profile.SkillProfile{}, false, err
	}
	var doc indexedProfile
	if err := json.Unmarshal(b, &doc); err != nil {
		return profile.SkillProfile{}, false, err
	}
	return doc.toProfile(), true, nil
}

func (x *RedisIndex) currentGen(ctx context.Context) (string, error) {
	gen, err := x.client.Get(ctx, currentGenKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(gen), nil
}

func (x *RedisIndex) sweepGeneration(ctx context.Context, gen string) {
	iter := x.client.Scan(ctx, 0, "skillidx:"+gen+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := x.client.Del(ctx, iter.Val()).Err(); err != nil && x.logger != nil {
			x.logger.Printf("[Index] sweep delete error key=%s err=%v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil && x.logger != nil {
		x.logger.Printf("[Index] sweep scan error gen=%s err=%v", gen, err)
	}
}

func writeProfile(pipe redis.Pipeliner, ctx context.Context, gen string, p profile.SkillProfile) {
	doc := indexedProfile{
		UserID:        p.UserID,
		UserName:      p.UserName,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Gender:        p.Gender,
		Email:         p.Email,
		SkillsOffered: p.CleanOffered(),
		SkillsWanted:  p.CleanWanted(),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return
	}
	pipe.Set(ctx, profileKey(gen, p.UserID), b, 0)
	for _, s := range doc.SkillsOffered {
		pipe.SAdd(ctx, skillKey(gen, "offered", s), p.UserID.String())
	}
	for _, s := range doc.SkillsWanted {
		pipe.SAdd(ctx, skillKey(gen, "wanted", s), p.UserID.String())
	}
}

func profileKey(gen string, userID uuid.UUID) string {
	return "skillidx:" + gen + ":profile:" + userID.String()
}

// Skill names are matched exactly, so keys keep the original casing; the
// fallback scan applies the same exact-match predicate.
func skillKey(gen, kind, skill string) string {
	return "skillidx:" + gen + ":" + kind + ":" + strings.TrimSpace(skill)
}

func (d indexedProfile) toProfile() profile.SkillProfile {
	return profile.SkillProfile{
		UserID:        d.UserID,
		UserName:      d.UserName,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Gender:        d.Gender,
		Email:         d.Email,
		SkillsOffered: d.SkillsOffered,
		SkillsWanted:  d.SkillsWanted,
	}
}

var _ Index = (*RedisIndex)(nil)
