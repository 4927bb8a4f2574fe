package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound means the session was never created, expired, or was revoked.
var ErrNotFound = errors.New("session not found")

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Store is the server-side session registry. A signed cookie alone is not
// enough to stay authenticated: logout deletes the redis record, which kills
// the session even if the client keeps the cookie.
type Store struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func NewStore(cfg Config) *Store {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ttl := cfg.TTL

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Store{redisdb: redisdb, ttl: ttl}
}

func (s *Store) Create(ctx context.Context, sid, userID string) error {
	return s.redisdb.Set(ctx, sessionKey(sid), userID, s.ttl).Err()
}

// UserID resolves a session ID back to its owner.
func (s *Store) UserID(ctx context.Context, sid string) (string, error) {
	val, err := s.redisdb.Get(ctx, sessionKey(sid)).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", err
	}

	return val, nil
}

// Revoke is idempotent; revoking an unknown session is not an error.
func (s *Store) Revoke(ctx context.Context, sid string) error {
	return s.redisdb.Del(ctx, sessionKey(sid)).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.redisdb.Close()
}

func sessionKey(sid string) string {
	return "session:" + sid
}
