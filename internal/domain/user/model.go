package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrUnsupportedEmail = errors.New("email provider is not supported")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var allowedEmailRegex = regexp.MustCompile(`^[^\s@]+@(gmail\.com|hotmail\.com|yahoo\.com|outlook\.com|live\.com)$`)

// User is the account record kept by the user backend.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	Token     string
	Favorites FavoriteSet
}

// Patch carries the fields of a partial user update; nil means unchanged.
type Patch struct {
	Username  *string
	Email     *string
	Password  *string
	Favorites *FavoriteSet
}

// Session is what a logged-in client carries between requests.
type Session struct {
	Token     string
	UserID    string
	Username  string
	Email     string
	Favorites FavoriteSet
	AvatarRef string
	CreatedAt time.Time
}

// Principal identifies the caller of an authorized request.
type Principal struct {
	UserID string
	Email  string
	Token  string
}

func NewSession(token string, u User, now time.Time) Session {
	return Session{
		Token:     token,
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Favorites: u.Favorites.Clone(),
		CreatedAt: now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if !allowedEmailRegex.MatchString(NormalizeEmail(email)) {
		return fmt.Errorf("%w: %s", ErrUnsupportedEmail, email)
	}
	return nil
}
