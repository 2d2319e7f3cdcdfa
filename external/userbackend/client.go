// Package userbackend talks to the json-server style "users" resource that
// stores accounts and favorites.
package userbackend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/playscout/internal/domain/fixture"
	"github.com/riskibarqy/playscout/internal/domain/user"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/platform/providerhttp"
	"github.com/riskibarqy/playscout/internal/platform/resilience"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const defaultBaseURL = "http://localhost:3000"

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements user.Repository on top of the REST backend.
type Client struct {
	http *providerhttp.Client
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		http: providerhttp.New(providerhttp.Config{
			Name:           "userbackend",
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         cfg.Logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
	}
}

type userRecord struct {
	ID       fixture.FlexString `json:"id,omitempty"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Token    string             `json:"token"`
	Favorito user.FavoriteSet   `json:"favorito"`
}

type patchRecord struct {
	Username *string           `json:"username,omitempty"`
	Email    *string           `json:"email,omitempty"`
	Password *string           `json:"password,omitempty"`
	Favorito *user.FavoriteSet `json:"favorito,omitempty"`
}

var _ user.Repository = (*Client)(nil)

func (c *Client) List(ctx context.Context) ([]user.User, error) {
	var records []userRecord
	if err := c.http.GetJSON(ctx, "/users", nil, &records); err != nil {
		return nil, backendError("list users", err)
	}
	return toUsers(records), nil
}

func (c *Client) GetByID(ctx context.Context, id string) (user.User, bool, error) {
	var record userRecord
	err := c.http.GetJSON(ctx, "/users/"+url.PathEscape(strings.TrimSpace(id)), nil, &record)
	if err != nil {
		if providerhttp.IsStatus(err, http.StatusNotFound) {
			return user.User{}, false, nil
		}
		return user.User{}, false, backendError("get user", err)
	}
	return record.toDomain(), true, nil
}

func (c *Client) FindByEmail(ctx context.Context, email string) (user.User, bool, error) {
	email = user.NormalizeEmail(email)
	query := url.Values{}
	query.Set("email", email)

	var records []userRecord
	if err := c.http.GetJSON(ctx, "/users", query, &records); err != nil {
		return user.User{}, false, backendError("find user by email", err)
	}
	for _, record := range records {
		if user.NormalizeEmail(record.Email) == email {
			return record.toDomain(), true, nil
		}
	}
	return user.User{}, false, nil
}

func (c *Client) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.Favorites == nil {
		u.Favorites = user.FavoriteSet{}
	}
	body, err := encode(userRecord{
		Username: u.Username,
		Email:    u.Email,
		Password: u.Password,
		Token:    u.Token,
		Favorito: u.Favorites,
	})
	if err != nil {
		return user.User{}, err
	}

	var created userRecord
	if err := c.http.SendJSON(ctx, http.MethodPost, "/users", nil, body, &created); err != nil {
		return user.User{}, backendError("create user", err)
	}
	return created.toDomain(), nil
}

func (c *Client) Update(ctx context.Context, id string, patch user.Patch) (user.User, error) {
	body, err := encode(patchRecord{
		Username: patch.Username,
		Email:    patch.Email,
		Password: patch.Password,
		Favorito: patch.Favorites,
	})
	if err != nil {
		return user.User{}, err
	}

	var updated userRecord
	path := "/users/" + url.PathEscape(strings.TrimSpace(id))
	if err := c.http.SendJSON(ctx, http.MethodPatch, path, nil, body, &updated); err != nil {
		if providerhttp.IsStatus(err, http.StatusNotFound) {
			return user.User{}, fmt.Errorf("update user id=%s: %w", id, usecase.ErrNotFound)
		}
		return user.User{}, backendError("update user", err)
	}
	return updated.toDomain(), nil
}

func encode(value any) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(value); err != nil {
		return nil, fmt.Errorf("encode user payload: %w", err)
	}
	return append([]byte(nil), buf.B...), nil
}

func backendError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, usecase.ErrDependencyUnavailable, err)
}

func (r userRecord) toDomain() user.User {
	favorites := r.Favorito
	if favorites == nil {
		favorites = user.FavoriteSet{}
	}
	return user.User{
		ID:        strings.TrimSpace(r.ID.String()),
		Username:  r.Username,
		Email:     r.Email,
		Password:  r.Password,
		Token:     r.Token,
		Favorites: favorites,
	}
}

func toUsers(records []userRecord) []user.User {
	out := make([]user.User, 0, len(records))
	for _, record := range records {
		out = append(out, record.toDomain())
	}
	return out
}
