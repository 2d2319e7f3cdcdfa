package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/playscout/internal/platform/id"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type HandlerConfig struct {
	Feed     *usecase.FeedService
	News     *usecase.NewsService
	Leagues  *usecase.LeagueService
	Teams    *usecase.TeamService
	Accounts *usecase.AccountService
	// Stream is the template every fixture stream connection builds its
	// poller from. Date and Location are filled per connection.
	Stream         usecase.FeedPollerConfig
	ConnectionIDs  id.Generator
	AllowedOrigins []string
	Logger         *logging.Logger
	Now            func() time.Time
}

type Handler struct {
	feed      *usecase.FeedService
	news      *usecase.NewsService
	leagues   *usecase.LeagueService
	teams     *usecase.TeamService
	accounts  *usecase.AccountService
	stream    usecase.FeedPollerConfig
	connIDs   id.Generator
	origins   corsPolicy
	logger    *logging.Logger
	validator *validator.Validate
	now       func() time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	connIDs := cfg.ConnectionIDs
	if connIDs == nil {
		connIDs = id.NewUUIDGenerator()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Handler{
		feed:      cfg.Feed,
		news:      cfg.News,
		leagues:   cfg.Leagues,
		teams:     cfg.Teams,
		accounts:  cfg.Accounts,
		stream:    cfg.Stream,
		connIDs:   connIDs,
		origins:   newCORSPolicy(cfg.AllowedOrigins),
		logger:    logger,
		validator: validator.New(),
		now:       now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
