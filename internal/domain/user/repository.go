package user

import "context"

// Repository is the user backend as seen by the account use cases.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, bool, error)
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, id string, patch Patch) (User, error)
}

// SessionStore persists the serialized session of a logged-in client. It is
// passed explicitly to the components that need it.
type SessionStore interface {
	LoadSession(ctx context.Context, token string) (Session, bool, error)
	SaveSession(ctx context.Context, token string, session Session) error
	DeleteSession(ctx context.Context, token string) error
}
