// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package live serves the WebSocket channel between a browser page and its
// server-side navigation state. The page forwards input events; the server
// answers with presentation operations. Every connection gets its own
// controller running on its own single-goroutine loop.
package live

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"portfolio/internal/nav"
	"portfolio/internal/sched"
	"portfolio/internal/section"
)

// Defaults for Options.
const (
	DefaultHelloTimeout = 10 * time.Second
	DefaultWriteTimeout = 5 * time.Second
	DefaultSendBuffer   = 64
	readLimit           = 4096
)

// BlogSource provides the current blog list for newly connected pages.
// *blog.Display implements it.
type BlogSource interface {
	Current() (fragment template.HTML, empty bool, version uint64)
}

// Observer is notified of session and transition events. *metrics.Metrics
// implements it.
type Observer interface {
	Transition(from, to string)
	SessionOpened()
	SessionClosed()
}

type nopObserver struct{}

func (nopObserver) Transition(string, string) {}
func (nopObserver) SessionOpened()            {}
func (nopObserver) SessionClosed()            {}

// Options configures a Hub.
type Options struct {
	Sections *section.Set
	Owner    string
	Blog     BlogSource
	Observer Observer

	// Nav tunes the per-page controllers. Owner and OnTransition are set
	// by the hub.
	Nav         nav.Options
	ResizeQuiet time.Duration

	HelloTimeout time.Duration
	WriteTimeout time.Duration
	SendBuffer   int

	// OriginPatterns allows cross-origin pages, see websocket.AcceptOptions.
	OriginPatterns []string
}

// Hub accepts live connections and fans blog updates out to them. It
// implements blog.Container.
type Hub struct {
	opts Options

	mu       sync.Mutex
	sessions map[*session]struct{}
	closed   bool
}

// NewHub creates a Hub. A nil Sections uses the default set.
func NewHub(opts Options) *Hub {
	if opts.Sections == nil {
		opts.Sections = section.Default()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.HelloTimeout == 0 {
		opts.HelloTimeout = DefaultHelloTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.SendBuffer == 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	return &Hub{
		opts:     opts,
		sessions: make(map[*session]struct{}),
	}
}

// ServeHTTP upgrades the request and runs the session until the page goes
// away, the hub closes or the request context ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		slog.Warn("live accept failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(readLimit)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	helloCtx, helloCancel := context.WithTimeout(ctx, h.opts.HelloTimeout)
	var hello ClientMessage
	err = wsjson.Read(helloCtx, conn, &hello)
	helloCancel()
	if err != nil || hello.Type != MsgHello {
		slog.Debug("live handshake rejected", "remote", r.RemoteAddr, "type", hello.Type, "error", err)
		conn.Close(websocket.StatusPolicyViolation, "expected hello")
		return
	}

	s := &session{
		id:     uuid.NewString(),
		hub:    h,
		conn:   conn,
		out:    make(chan Op, h.opts.SendBuffer),
		loop:   sched.NewLoop(),
		cancel: cancel,
	}
	if !h.add(s) {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}
	defer h.remove(s)

	slog.Info("live session opened", "session", s.id, "fragment", hello.Fragment, "width", hello.Width)
	h.opts.Observer.SessionOpened()
	defer h.opts.Observer.SessionClosed()

	go s.loop.Run(ctx)
	defer s.loop.Close()
	s.loop.Post(func() { s.start(hello) })

	go s.writeLoop(ctx)

	err = s.readLoop(ctx)
	switch {
	case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
		websocket.CloseStatus(err) == websocket.StatusGoingAway:
		slog.Info("live session closed", "session", s.id)
	case errors.Is(err, context.Canceled):
		slog.Info("live session ended", "session", s.id)
		conn.Close(websocket.StatusGoingAway, "")
	default:
		slog.Warn("live session failed", "session", s.id, "error", err)
	}
}

func (h *Hub) add(s *session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.sessions[s] = struct{}{}
	return true
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

func (h *Hub) snapshot() []*session {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// Len returns the number of connected pages.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// ReplaceList pushes a new blog list to every connected page.
func (h *Hub) ReplaceList(fragment template.HTML) {
	for _, s := range h.snapshot() {
		s.sendBlog(fragment, false)
	}
}

// ShowPlaceholder tells every connected page to show the placeholder.
func (h *Hub) ShowPlaceholder() {
	for _, s := range h.snapshot() {
		s.sendBlog("", true)
	}
}

// Close disconnects every page and rejects new ones. Hijacked connections
// are not tracked by http.Server.Shutdown, so call this first.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.cancel()
	}
	if len(sessions) > 0 {
		slog.Info("live sessions closed", "count", len(sessions))
	}
}
