package memory

import (
	"context"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/platform/cache"
)

// SessionStore keeps sessions in process; they expire ttl after the last save.
type SessionStore struct {
	store *cache.Store[user.Session]
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{store: cache.NewStore[user.Session](ttl)}
}

func (s *SessionStore) LoadSession(ctx context.Context, token string) (user.Session, bool, error) {
	session, ok := s.store.Get(ctx, token)
	if !ok {
		return user.Session{}, false, nil
	}
	session.Favorites = session.Favorites.Clone()
	return session, true, nil
}

func (s *SessionStore) SaveSession(ctx context.Context, token string, session user.Session) error {
	session.Favorites = session.Favorites.Clone()
	s.store.Set(ctx, token, session)
	return nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	s.store.Delete(ctx, token)
	return nil
}
