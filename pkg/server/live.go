package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/crmnav/internal/errors"
	"github.com/vango-dev/crmnav/pkg/history"
	"github.com/vango-dev/crmnav/pkg/navigation"
	"github.com/vango-dev/crmnav/pkg/routepath"
	"github.com/vango-dev/crmnav/pkg/router"
)

// Frame types.
const (
	FrameNavigate = "navigate"
	FramePopstate = "popstate"
	FrameRender   = "render"
	FrameError    = "error"
)

// Render modes tell the client which history operation to apply.
const (
	RenderPush    = "push"
	RenderReplace = "replace"
	RenderNone    = "none"
)

// ClientFrame is a frame sent by the thin client. A navigate frame with
// Scroll set to false keeps the scroll position; absent means true.
type ClientFrame struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Replace bool   `json:"replace,omitempty"`
	Scroll  *bool  `json:"scroll,omitempty"`
}

// RenderFrame carries a rendered view.
type RenderFrame struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	Href   string `json:"href"`
	Title  string `json:"title,omitempty"`
	HTML   string `json:"html"`
	Mode   string `json:"mode"`
	Scroll bool   `json:"scroll"`
}

// ErrorFrame reports a failed navigation. When Href is set the client
// falls back to a full page load of it.
type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Href    string `json:"href,omitempty"`
}

// DecodeClientFrame parses and validates a client frame.
func DecodeClientFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return ClientFrame{}, errors.New("E302").Wrap(err)
	}
	switch f.Type {
	case FrameNavigate, FramePopstate:
	default:
		return ClientFrame{}, errors.New("E302").WithDetail("Unknown frame type " + f.Type)
	}
	if f.Path == "" {
		return ClientFrame{}, errors.New("E302").WithDetail("Frame has no path")
	}
	return f, nil
}

func newErrorFrame(err error, href string) ErrorFrame {
	e := errors.FromError(err, "E206")
	return ErrorFrame{Type: FrameError, Code: e.Code, Message: e.Message, Href: href}
}

// liveConn is one live navigation connection with its own controller.
type liveConn struct {
	id           string
	ws           *websocket.Conn
	ctrl         *navigation.Controller
	writeTimeout time.Duration
	cancel       context.CancelFunc
	logger       *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (c *liveConn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *liveConn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

func (c *liveConn) close(code int, reason string) {
	c.closeOnce.Do(func() {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(c.writeTimeout))
		_ = c.ws.Close()
		c.cancel()
	})
}

// serveLive upgrades to a WebSocket and runs a live navigation session.
// The "path" query parameter is the page URL the client loaded.
func (s *Server) serveLive(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		http.Error(w, "Server shutting down", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.config.Metrics.RecordWebSocketError("upgrade")
		return
	}

	start := r.URL.Query().Get("path")
	if start == "" {
		start = routepath.JoinBase(s.base, "/")
	}

	ctx, cancel := context.WithCancel(r.Context())
	id := uuid.NewString()
	logger := s.logger.With("conn_id", id)
	c := &liveConn{
		id:           id,
		ws:           ws,
		ctrl:         s.nav.Clone(history.NewWebHistoryAt(s.base, start)),
		writeTimeout: s.config.WriteTimeout,
		cancel:       cancel,
		logger:       logger,
	}

	if _, err := c.ctrl.Start(ctx); err != nil {
		logger.Debug("live connection started off-route", "path", start, "error", err)
	}

	if !s.register(c) {
		c.close(websocket.CloseGoingAway, "server shutting down")
		return
	}
	s.config.Metrics.RecordConnectionOpen()
	logger.Info("live connection opened", "path", start)

	defer func() {
		c.close(websocket.CloseNormalClosure, "")
		s.mu.Lock()
		delete(s.conns, id)
		s.mu.Unlock()
		s.config.Metrics.RecordConnectionClose()
		logger.Info("live connection closed")
	}()

	s.runLive(ctx, c)
}

// register adds c to the live set. It reports false once Shutdown has
// started, since Shutdown only closes connections it can see.
func (s *Server) register(c *liveConn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c.id] = c
	return true
}

func (s *Server) runLive(ctx context.Context, c *liveConn) {
	idle := 2 * s.config.PingInterval
	c.ws.SetReadLimit(s.config.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(idle))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(idle))
	})

	go func() {
		ticker := time.NewTicker(s.config.PingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.ping(); err != nil {
					c.close(websocket.CloseGoingAway, "ping failed")
					return
				}
			}
		}
	}()

	for {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) && ctx.Err() == nil {
				c.logger.Warn("live read failed", "error", err)
				s.config.Metrics.RecordWebSocketError("read")
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(idle))

		var reply any
		frame, err := DecodeClientFrame(msg)
		if err != nil {
			c.logger.Debug("malformed frame", "error", err)
			reply = newErrorFrame(err, "")
		} else {
			reply = s.handleFrame(ctx, c, frame)
		}

		if err := c.writeJSON(reply); err != nil {
			c.logger.Warn("live write failed", "error", err)
			s.config.Metrics.RecordWebSocketError("write")
			return
		}
	}
}

// handleFrame navigates the connection's controller and returns the reply.
func (s *Server) handleFrame(ctx context.Context, c *liveConn, f ClientFrame) any {
	location, ok := routepath.StripBase(s.base, f.Path)
	if !ok {
		return newErrorFrame(errors.New("E205").WithDetail(f.Path+" is outside "+routepath.JoinBase(s.base, "/")), f.Path)
	}

	var (
		loc     *navigation.Location
		err     error
		mode    string
		navMode string
	)
	switch f.Type {
	case FrameNavigate:
		mode, navMode = RenderPush, navigation.ModePush
		var opts []router.NavigateOption
		if f.Replace {
			mode, navMode = RenderReplace, navigation.ModeReplace
			opts = append(opts, router.WithReplace())
		}
		if f.Scroll != nil && !*f.Scroll {
			opts = append(opts, router.WithoutScroll())
		}
		loc, err = c.ctrl.Push(ctx, navigation.To(location), opts...)
	case FramePopstate:
		mode, navMode = RenderNone, navigation.ModePop
		loc, err = c.ctrl.Pop(ctx, location)
	}

	if err != nil {
		c.logger.Debug("live navigation failed", "type", f.Type, "path", f.Path, "error", err)
		href := ""
		if stderrors.Is(err, router.ErrNoMatch) {
			s.config.Metrics.RecordUnmatched(navMode)
		}
		if loc != nil && !loc.Matched() {
			href = loc.Href
		}
		return newErrorFrame(err, href)
	}

	html, err := renderView(ctx, loc)
	if err != nil {
		c.logger.Error("render failed", "route", loc.Name(), "error", err)
		return newErrorFrame(err, "")
	}

	return RenderFrame{
		Type:   FrameRender,
		Name:   loc.Name(),
		Path:   loc.Path,
		Href:   loc.Href,
		Title:  s.layout.title(loc.Record.DisplayTitle()),
		HTML:   string(html),
		Mode:   mode,
		Scroll: loc.Scroll && mode != RenderNone,
	}
}
