package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/playscout/internal/domain/user"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	sessionKeyPrefix  = "session:"
)

// sessionRecord is the serialized session blob.
type sessionRecord struct {
	Token     string           `json:"token"`
	UserID    string           `json:"user_id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Favorites user.FavoriteSet `json:"favorito"`
	AvatarRef string           `json:"avatar_ref,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// SessionStore keeps sessions as JSON values under "session:<token>".
type SessionStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

func NewSessionStore(client goredis.UniversalClient, ttl time.Duration, keyPrefix string) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
		prefix: strings.TrimSpace(keyPrefix),
	}
}

func (s *SessionStore) LoadSession(ctx context.Context, token string) (user.Session, bool, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return user.Session{}, false, nil
	}
	if err != nil {
		return user.Session{}, false, fmt.Errorf("get session: %w", err)
	}

	var record sessionRecord
	if err := sonic.Unmarshal(raw, &record); err != nil {
		return user.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	return user.Session(record), true, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, token string, session user.Session) error {
	payload, err := sonic.Marshal(sessionRecord(session))
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(token string) string {
	return s.prefix + sessionKeyPrefix + token
}

// NewClient builds a client from a redis:// URL.
func NewClient(rawURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return goredis.NewClient(opts), nil
}
