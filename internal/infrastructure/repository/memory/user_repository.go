package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/usecase"
)

// UserRepository keeps accounts in process. It backs local runs and tests
// when no user backend is configured.
type UserRepository struct {
	mu     sync.RWMutex
	items  map[string]user.User
	orders []string
	nextID int
}

func NewUserRepository(seed ...user.User) *UserRepository {
	r := &UserRepository{items: make(map[string]user.User, len(seed))}
	for _, u := range seed {
		_, _ = r.Create(context.Background(), u)
	}
	return r
}

func (r *UserRepository) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, cloneUser(r.items[id]))
	}
	return out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (user.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, false, nil
	}
	return cloneUser(u), true, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (user.User, bool, error) {
	email = user.NormalizeEmail(email)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if u := r.items[id]; user.NormalizeEmail(u.Email) == email {
			return cloneUser(u), true, nil
		}
	}
	return user.User{}, false, nil
}

func (r *UserRepository) Create(_ context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		r.nextID++
		u.ID = strconv.Itoa(r.nextID)
	}
	if _, exists := r.items[u.ID]; exists {
		return user.User{}, fmt.Errorf("%w: user=%s", usecase.ErrConflict, u.ID)
	}
	if u.Favorites == nil {
		u.Favorites = user.FavoriteSet{}
	}

	r.items[u.ID] = cloneUser(u)
	r.orders = append(r.orders, u.ID)
	return cloneUser(u), nil
}

func (r *UserRepository) Update(_ context.Context, id string, patch user.Patch) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return user.User{}, fmt.Errorf("%w: user=%s", usecase.ErrNotFound, id)
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Favorites != nil {
		u.Favorites = patch.Favorites.Clone()
	}

	r.items[id] = u
	return cloneUser(u), nil
}

func cloneUser(u user.User) user.User {
	u.Favorites = u.Favorites.Clone()
	return u
}
