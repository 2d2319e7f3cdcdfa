package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/playscout/internal/domain/team"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/platform/id"
	"github.com/riskibarqy/playscout/internal/platform/logging"
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

type ProfileUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// FavoriteTeams resolves favorite ids to team records.
type FavoriteTeams interface {
	GetTeams(ctx context.Context, ids []string) ([]team.Team, error)
}

type AccountServiceConfig struct {
	Users      user.Repository
	Sessions   user.SessionStore
	Teams      FavoriteTeams
	SessionIDs id.Generator
	UserTokens id.Generator
	Logger     *logging.Logger
	Now        func() time.Time
}

// AccountService covers registration, login and the per-user state (profile,
// favorites, avatar) kept in the session.
type AccountService struct {
	users      user.Repository
	sessions   user.SessionStore
	teams      FavoriteTeams
	sessionIDs id.Generator
	userTokens id.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewAccountService(cfg AccountServiceConfig) *AccountService {
	sessionIDs := cfg.SessionIDs
	if sessionIDs == nil {
		sessionIDs = id.NewUUIDGenerator()
	}
	userTokens := cfg.UserTokens
	if userTokens == nil {
		userTokens = id.NewRandomGenerator()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &AccountService{
		users:      cfg.Users,
		sessions:   cfg.Sessions,
		teams:      cfg.Teams,
		sessionIDs: sessionIDs,
		userTokens: userTokens,
		logger:     logger,
		now:        now,
	}
}

// Register creates the account and signs the new user in.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (user.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Register")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	email := user.NormalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return user.Session{}, fmt.Errorf("%w: username, email and password are required", ErrInvalidInput)
	}
	if err := user.ValidateEmail(email); err != nil {
		return user.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if input.Password != input.ConfirmPassword {
		return user.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, user.ErrPasswordMismatch)
	}

	_, taken, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return user.Session{}, fmt.Errorf("find user by email: %w", err)
	}
	if taken {
		return user.Session{}, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	token, err := s.userTokens.NewID()
	if err != nil {
		return user.Session{}, fmt.Errorf("generate user token: %w", err)
	}
	created, err := s.users.Create(ctx, user.User{
		Username:  username,
		Email:     email,
		Password:  input.Password,
		Token:     token,
		Favorites: user.FavoriteSet{},
	})
	if err != nil {
		return user.Session{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", created.ID)
	return s.openSession(ctx, created)
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (user.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Login")
	defer span.End()

	email := user.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return user.Session{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	found, exists, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return user.Session{}, fmt.Errorf("find user by email: %w", err)
	}
	if !exists || subtle.ConstantTimeCompare([]byte(found.Password), []byte(input.Password)) != 1 {
		return user.Session{}, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	return s.openSession(ctx, found)
}

func (s *AccountService) Logout(ctx context.Context, principal user.Principal) error {
	if err := s.sessions.DeleteSession(ctx, principal.Token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer session token.
func (s *AccountService) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	session, err := s.session(ctx, token)
	if err != nil {
		return user.Principal{}, err
	}
	return user.Principal{UserID: session.UserID, Email: session.Email, Token: session.Token}, nil
}

func (s *AccountService) Profile(ctx context.Context, principal user.Principal) (user.Session, error) {
	return s.session(ctx, principal.Token)
}

func (s *AccountService) UpdateProfile(ctx context.Context, principal user.Principal, update ProfileUpdate) (user.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.UpdateProfile")
	defer span.End()

	patch := user.Patch{}
	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return user.Session{}, fmt.Errorf("%w: username must not be empty", ErrInvalidInput)
		}
		patch.Username = &username
	}
	if update.Email != nil {
		email := user.NormalizeEmail(*update.Email)
		if err := user.ValidateEmail(email); err != nil {
			return user.Session{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if email != user.NormalizeEmail(principal.Email) {
			_, taken, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return user.Session{}, fmt.Errorf("find user by email: %w", err)
			}
			if taken {
				return user.Session{}, fmt.Errorf("%w: email already registered", ErrConflict)
			}
		}
		patch.Email = &email
	}
	if update.Password != nil {
		if *update.Password == "" {
			return user.Session{}, fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		patch.Password = update.Password
	}

	return s.applyPatch(ctx, principal, patch)
}

// FavoriteTeams returns the caller's favorite teams in favorite order.
func (s *AccountService) FavoriteTeams(ctx context.Context, principal user.Principal) ([]team.Team, error) {
	session, err := s.session(ctx, principal.Token)
	if err != nil {
		return nil, err
	}
	if len(session.Favorites) == 0 {
		return []team.Team{}, nil
	}
	teams, err := s.teams.GetTeams(ctx, session.Favorites)
	if err != nil {
		return nil, fmt.Errorf("resolve favorite teams: %w", err)
	}
	return teams, nil
}

// ToggleFavorite adds teamID to the favorites or removes it when present.
func (s *AccountService) ToggleFavorite(ctx context.Context, principal user.Principal, teamID string) (user.FavoriteSet, error) {
	return s.updateFavorites(ctx, principal, teamID, user.FavoriteSet.Toggle)
}

func (s *AccountService) RemoveFavorite(ctx context.Context, principal user.Principal, teamID string) (user.FavoriteSet, error) {
	return s.updateFavorites(ctx, principal, teamID, user.FavoriteSet.Remove)
}

// SetAvatar stores a client-side photo reference on the session only.
func (s *AccountService) SetAvatar(ctx context.Context, principal user.Principal, ref string) (user.Session, error) {
	session, err := s.session(ctx, principal.Token)
	if err != nil {
		return user.Session{}, err
	}
	session.AvatarRef = strings.TrimSpace(ref)
	if err := s.sessions.SaveSession(ctx, session.Token, session); err != nil {
		return user.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *AccountService) updateFavorites(
	ctx context.Context,
	principal user.Principal,
	teamID string,
	apply func(user.FavoriteSet, string) user.FavoriteSet,
) (user.FavoriteSet, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.updateFavorites")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	current, exists, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: user=%s", ErrNotFound, principal.UserID)
	}

	favorites := apply(current.Favorites, teamID)
	session, err := s.applyPatch(ctx, principal, user.Patch{Favorites: &favorites})
	if err != nil {
		return nil, err
	}
	return session.Favorites, nil
}

func (s *AccountService) applyPatch(ctx context.Context, principal user.Principal, patch user.Patch) (user.Session, error) {
	session, err := s.session(ctx, principal.Token)
	if err != nil {
		return user.Session{}, err
	}

	updated, err := s.users.Update(ctx, principal.UserID, patch)
	if err != nil {
		return user.Session{}, fmt.Errorf("update user: %w", err)
	}

	refreshed := user.NewSession(session.Token, updated, session.CreatedAt)
	refreshed.AvatarRef = session.AvatarRef
	if err := s.sessions.SaveSession(ctx, session.Token, refreshed); err != nil {
		return user.Session{}, fmt.Errorf("save session: %w", err)
	}
	return refreshed, nil
}

func (s *AccountService) openSession(ctx context.Context, u user.User) (user.Session, error) {
	token, err := s.sessionIDs.NewID()
	if err != nil {
		return user.Session{}, fmt.Errorf("generate session token: %w", err)
	}
	session := user.NewSession(token, u, s.now())
	if err := s.sessions.SaveSession(ctx, token, session); err != nil {
		return user.Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

func (s *AccountService) session(ctx context.Context, token string) (user.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Session{}, fmt.Errorf("%w: missing session token", ErrUnauthorized)
	}
	session, exists, err := s.sessions.LoadSession(ctx, token)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return user.Session{}, err
		}
		return user.Session{}, fmt.Errorf("%w: load session: %v", ErrDependencyUnavailable, err)
	}
	if !exists {
		return user.Session{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}
	return session, nil
}
