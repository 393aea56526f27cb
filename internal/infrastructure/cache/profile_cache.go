package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-dashboard/internal/domain/entity"
)

const DefaultProfileTTL = 10 * time.Minute

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(c).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

// profileEntry is the cached form of a user. The password hash is never
// written to the cache.
type profileEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func profileKey(userID string) string { return "profile:" + userID }

func encodeProfile(u *entity.User) ([]byte, error) {
	return json.Marshal(profileEntry{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
}

func decodeProfile(b []byte) (*entity.User, error) {
	var e profileEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &entity.User{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Bio:       e.Bio,
		AvatarURL: e.AvatarURL,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}

// ProfileCache is a read-through cache of user profiles in redis. Errors
// are logged and treated as misses.
type ProfileCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewProfileCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *ProfileCache {
	if ttl <= 0 {
		ttl = DefaultProfileTTL
	}
	return &ProfileCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *ProfileCache) Get(ctx context.Context, userID string) (*entity.User, bool) {
	b, err := c.rdb.Get(ctx, profileKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache get failed")
		return nil, false
	}
	u, err := decodeProfile(b)
	if err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache entry unreadable")
		return nil, false
	}
	return u, true
}

func (c *ProfileCache) Set(ctx context.Context, u *entity.User) {
	b, err := encodeProfile(u)
	if err == nil {
		err = c.rdb.Set(ctx, profileKey(u.ID), b, c.ttl).Err()
	}
	if err != nil {
		c.logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache set failed")
	}
}

func (c *ProfileCache) Delete(ctx context.Context, userID string) {
	if err := c.rdb.Del(ctx, profileKey(userID)).Err(); err != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn("profile cache delete failed")
	}
}
