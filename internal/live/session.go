// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package live

import (
	"context"
	"errors"
	"html/template"
	"log/slog"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"portfolio/internal/nav"
	"portfolio/internal/sched"
	"portfolio/internal/section"
	"portfolio/internal/viewport"
)

// session is one connected page. Controller and optimizer state is only
// touched from the session loop; send may be called from any goroutine.
type session struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	out    chan Op
	loop   *sched.Loop
	cancel context.CancelFunc

	regions   map[string]bool
	ctrl      *nav.Controller
	optimizer *viewport.Optimizer
}

// send queues op for the writer. A page that cannot keep up is
// disconnected rather than allowed to block the caller.
func (s *session) send(op Op) {
	select {
	case s.out <- op:
	default:
		slog.Warn("live session send buffer full, disconnecting", "session", s.id)
		s.cancel()
	}
}

func (s *session) sendBlog(fragment template.HTML, empty bool) {
	s.send(Op{Op: OpBlog, HTML: string(fragment), Empty: empty})
}

// start builds the page state from the hello message. It runs on the loop.
func (s *session) start(hello ClientMessage) {
	s.regions = make(map[string]bool, len(hello.Regions))
	for _, id := range hello.Regions {
		s.regions[id] = true
	}

	opts := s.hub.opts.Nav
	opts.Owner = s.hub.opts.Owner
	opts.OnTransition = func(from, to section.Section) {
		slog.Debug("section transition", "session", s.id, "from", from, "to", to)
		s.hub.opts.Observer.Transition(from.String(), to.String())
	}
	s.ctrl = nav.New(s.hub.opts.Sections, s.loop, s, hello.Fragment, opts)
	s.ctrl.HandleDeepLink(hello.Fragment)

	s.optimizer = viewport.NewOptimizer(s.loop, s, hello.Width, s.hub.opts.ResizeQuiet)
	if err := viewport.SetupReveal(s, hello.Capabilities); err != nil {
		slog.Debug("reveal fallback", "session", s.id, "error", err)
	}
	viewport.ApplyMotionPreference(s, hello.Capabilities)

	if s.hub.opts.Blog != nil {
		fragment, empty, _ := s.hub.opts.Blog.Current()
		s.sendBlog(fragment, empty)
	}
}

// dispatch routes an input event to the controller. It runs on the loop.
func (s *session) dispatch(msg ClientMessage) {
	switch msg.Type {
	case MsgClick:
		s.ctrl.HandleNavClick(msg.Href)
	case MsgDot:
		s.ctrl.HandleDotClick(msg.Section)
	case MsgDotKey:
		s.ctrl.HandleDotKey(msg.Section, msg.Key)
	case MsgKey:
		s.ctrl.HandleKey(msg.Key)
	case MsgHashChange:
		s.ctrl.HandleDeepLink(msg.Fragment)
	case MsgResize:
		s.optimizer.Resize(msg.Width)
	default:
		slog.Debug("unknown live message", "session", s.id, "type", msg.Type)
	}
}

// readLoop posts every incoming message to the session loop until the
// connection fails or ctx ends.
func (s *session) readLoop(ctx context.Context) error {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			return err
		}
		s.loop.Post(func() { s.dispatch(msg) })
	}
}

// writeLoop writes queued operations until ctx ends or a write fails.
func (s *session) writeLoop(ctx context.Context) {
	for {
		select {
		case op := <-s.out:
			wctx, cancel := context.WithTimeout(ctx, s.hub.opts.WriteTimeout)
			err := wsjson.Write(wctx, s.conn, op)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					slog.Debug("live write failed", "session", s.id, "error", err)
				}
				s.cancel()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// nav.Presenter

func (s *session) HasRegion(sec section.Section) bool {
	return s.regions[sec.ContentID()]
}

func (s *session) MarkActive(sec section.Section) {
	s.send(Op{Op: OpMarkActive, Section: sec.String()})
}

func (s *session) SetTitle(title string) {
	s.send(Op{Op: OpTitle, Title: title})
}

func (s *session) Show(sec section.Section) {
	s.send(Op{Op: OpShow, Section: sec.String()})
}

func (s *session) BeginExit(sec section.Section) {
	s.send(Op{Op: OpExit, Section: sec.String()})
}

func (s *session) Swap(sec section.Section) {
	s.send(Op{Op: OpSwap, Section: sec.String()})
}

func (s *session) BeginEnter(sec section.Section) {
	s.send(Op{Op: OpEnter, Section: sec.String()})
}

func (s *session) Focus(sec section.Section) {
	s.send(Op{Op: OpFocus, Section: sec.String()})
}

func (s *session) Announce(id, text string) {
	s.send(Op{Op: OpAnnounce, ID: id, Text: text})
}

func (s *session) RemoveAnnouncement(id string) {
	s.send(Op{Op: OpUnannounce, ID: id})
}

func (s *session) ScrollIntoView(sec section.Section) {
	s.send(Op{Op: OpScroll, Section: sec.String()})
}

// viewport.Presenter

func (s *session) StyleShapes(style viewport.ShapeStyle) {
	s.send(Op{Op: OpShapes, Shapes: &style})
}

func (s *session) ObserveReveal(opts viewport.RevealOptions) {
	s.send(Op{Op: OpObserveReveal, Reveal: &opts})
}

func (s *session) RevealAll(selector, class string) {
	s.send(Op{Op: OpRevealAll, Selector: selector, Class: class})
}

func (s *session) SetAnimationDuration(d string) {
	s.send(Op{Op: OpAnimationDuration, Duration: d})
}

var (
	_ nav.Presenter      = (*session)(nil)
	_ viewport.Presenter = (*session)(nil)
)

