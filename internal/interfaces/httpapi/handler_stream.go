package httpapi

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/playscout/internal/platform/logging"
	"github.com/riskibarqy/playscout/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	streamWriteWait      = 10 * time.Second
	streamPongWait       = 60 * time.Second
	streamPingPeriod     = (streamPongWait * 9) / 10
	streamMaxMessageSize = 4096
)

const (
	streamMessageHello   = "hello"
	streamMessageFeed    = "feed"
	streamMessageSearch  = "search"
	streamMessageRefresh = "refresh"
)

type streamClientMessage struct {
	Type string `json:"type"`
	Q    string `json:"q"`
}

type streamServerMessage struct {
	Type         string            `json:"type"`
	ConnectionID string            `json:"connection_id,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Date         string            `json:"date,omitempty"`
	Now          string            `json:"now,omitempty"`
	Loading      bool              `json:"loading"`
	Phase        string            `json:"phase,omitempty"`
	NextFetch    string            `json:"next_fetch,omitempty"`
	Error        string            `json:"error,omitempty"`
	Groups       []fixtureGroupDTO `json:"groups"`
}

// feedStream is one WebSocket connection with its own poller. Only the
// handler goroutine writes to conn; the read pump only reads.
type feedStream struct {
	id     string
	date   string
	conn   *websocket.Conn
	poller *usecase.FeedPoller
	feed   *usecase.FeedService
	logger *logging.Logger

	mu       sync.Mutex
	search   string
	rerender chan struct{}
}

func (h *Handler) StreamFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamFixtures")
	defer span.End()

	query := r.URL.Query()
	date := strings.TrimSpace(query.Get("date"))
	if date == "" {
		date = h.feed.Today()
	}
	if err := usecase.ValidateFeedDate(date); err != nil {
		writeError(ctx, w, err)
		return
	}

	connID, err := h.connIDs.NewID()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkStreamOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(ctx, "fixture stream upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("connection_id", connID)
	cfg := h.stream
	cfg.Date = date
	cfg.Location = h.feed.Location()
	cfg.Logger = logger

	stream := &feedStream{
		id:       connID,
		date:     date,
		conn:     conn,
		poller:   usecase.NewFeedPoller(h.feed, cfg),
		feed:     h.feed,
		logger:   logger,
		search:   strings.TrimSpace(query.Get("q")),
		rerender: make(chan struct{}, 1),
	}

	logger.InfoContext(ctx, "fixture stream opened", "date", date)
	stream.run(ctx)
	logger.InfoContext(ctx, "fixture stream closed")
}

func (h *Handler) checkStreamOrigin(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	return origin == "" || h.origins.allows(origin)
}

func (s *feedStream) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	updates, unsubscribe := s.poller.Subscribe()
	defer unsubscribe()
	s.poller.Start(ctx)
	defer s.poller.Stop()

	go s.readPump(ctx, cancel)

	if err := s.write(streamServerMessage{Type: streamMessageHello, ConnectionID: s.id, Date: s.date}); err != nil {
		return
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(streamWriteWait))
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := s.write(s.render(update.Reason, update.State)); err != nil {
				return
			}
		case <-s.rerender:
			if err := s.write(s.render(usecase.UpdateReasonFixtures, s.poller.Snapshot())); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (s *feedStream) readPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	s.conn.SetReadLimit(streamMaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WarnContext(ctx, "fixture stream read failed", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(streamPongWait))

		var msg streamClientMessage
		if err := sonic.Unmarshal(raw, &msg); err != nil {
			s.logger.DebugContext(ctx, "fixture stream ignored malformed message", "error", err)
			continue
		}

		switch strings.ToLower(strings.TrimSpace(msg.Type)) {
		case streamMessageSearch:
			s.mu.Lock()
			s.search = strings.TrimSpace(msg.Q)
			s.mu.Unlock()
			select {
			case s.rerender <- struct{}{}:
			default:
			}
		case streamMessageRefresh:
			s.poller.Refresh()
		default:
			s.logger.DebugContext(ctx, "fixture stream ignored message", "type", msg.Type)
		}
	}
}

func (s *feedStream) render(reason usecase.UpdateReason, state usecase.FeedState) streamServerMessage {
	s.mu.Lock()
	search := s.search
	s.mu.Unlock()

	view := s.feed.View(state.Fixtures, search, state.Now)
	msg := streamServerMessage{
		Type:    streamMessageFeed,
		Reason:  string(reason),
		Date:    s.date,
		Now:     view.Now.Format(time.RFC3339),
		Loading: state.Loading,
		Phase:   string(state.Phase),
		Groups:  groupsToDTO(view.Groups, view.Now),
	}
	if !state.NextFetch.IsZero() {
		msg.NextFetch = state.NextFetch.Format(time.RFC3339)
	}
	if reason == usecase.UpdateReasonError {
		msg.Error = state.LastError
	}
	return msg
}

func (s *feedStream) write(msg streamServerMessage) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(msg); err != nil {
		return err
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return s.conn.WriteMessage(websocket.TextMessage, buf.B)
}
