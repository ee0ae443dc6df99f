// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package nav implements the section navigation state machine. A Controller
// owns the active section of one page, turns input events into transitions
// and sequences the exit/swap/enter presentation steps on a scheduler.
//
// Overlapping transitions: every effective transition bumps a generation
// counter and deferred steps belonging to an older generation are dropped,
// so the last requested transition wins.
package nav

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/sched"
	"portfolio/internal/section"
)

// Default timings, matching the CSS transitions of the page.
const (
	DefaultSwapDelay      = 200 * time.Millisecond
	DefaultEnterDuration  = 200 * time.Millisecond
	DefaultAnnounceTTL    = 1000 * time.Millisecond
	DefaultDeepLinkSettle = 250 * time.Millisecond
)

// Phase is the presentation phase of the controller.
type Phase int

const (
	Idle Phase = iota
	Exiting
	Swapping
	Entering
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Exiting:
		return "exiting"
	case Swapping:
		return "swapping"
	case Entering:
		return "entering"
	}
	return "unknown"
}

// Options tunes a Controller. Zero values select the defaults.
type Options struct {
	Owner          string
	SwapDelay      time.Duration
	EnterDuration  time.Duration
	AnnounceTTL    time.Duration
	DeepLinkSettle time.Duration

	// OnTransition is called after every effective transition.
	OnTransition func(from, to section.Section)
	// NewID generates announcement ids.
	NewID func() string
}

func (o *Options) withDefaults() {
	if o.Owner == "" {
		o.Owner = "Portfolio"
	}
	if o.SwapDelay == 0 {
		o.SwapDelay = DefaultSwapDelay
	}
	if o.EnterDuration == 0 {
		o.EnterDuration = DefaultEnterDuration
	}
	if o.AnnounceTTL == 0 {
		o.AnnounceTTL = DefaultAnnounceTTL
	}
	if o.DeepLinkSettle == 0 {
		o.DeepLinkSettle = DefaultDeepLinkSettle
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
}

// Controller is the navigation state machine for one page. All methods must
// be called from callbacks of the controller's scheduler.
type Controller struct {
	sections *section.Set
	sched    sched.Scheduler
	view     Presenter
	opts     Options

	active     section.Section
	phase      Phase
	generation uint64
}

// New creates a controller. If fragment names a known section it becomes
// active without animation, otherwise the first section of the set does.
func New(sections *section.Set, s sched.Scheduler, view Presenter, fragment string, opts Options) *Controller {
	opts.withDefaults()
	c := &Controller{
		sections: sections,
		sched:    s,
		view:     view,
		opts:     opts,
		active:   sections.First(),
	}
	if initial, ok := sections.FromFragment(fragment); ok {
		c.active = initial
	}

	view.MarkActive(c.active)
	view.SetTitle(section.DocumentTitle(c.active, opts.Owner))
	if view.HasRegion(c.active) {
		view.Show(c.active)
	}
	return c
}

// Active returns the active section.
func (c *Controller) Active() section.Section {
	return c.active
}

// Phase returns the current presentation phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// RequestTransition switches to target. Unknown targets and the active
// section are ignored.
func (c *Controller) RequestTransition(target section.Section) {
	if !c.sections.Contains(target) || target == c.active {
		return
	}

	from := c.active
	c.generation++
	gen := c.generation

	c.view.MarkActive(target)
	c.view.SetTitle(section.DocumentTitle(target, c.opts.Owner))

	if !c.view.HasRegion(from) || !c.view.HasRegion(target) {
		missing := target
		if !c.view.HasRegion(from) {
			missing = from
		}
		slog.Debug("section transition without animation",
			"from", from,
			"to", target,
			"error", &MissingElementError{ID: missing.ContentID()},
		)
		if c.view.HasRegion(target) {
			c.view.Show(target)
		}
		c.phase = Idle
		c.commit(from, target)
		return
	}

	c.phase = Exiting
	c.view.BeginExit(from)
	c.sched.AfterFunc(c.opts.SwapDelay, func() {
		if gen != c.generation {
			return
		}
		c.phase = Swapping
		c.view.Swap(target)
		c.phase = Entering
		c.view.BeginEnter(target)
		c.view.Focus(target)
		c.sched.AfterFunc(c.opts.EnterDuration, func() {
			if gen == c.generation {
				c.phase = Idle
			}
		})
	})

	c.announce("Navigated to " + string(target) + " section")
	c.commit(from, target)
}

// HandleDeepLink transitions to the section named by fragment on the next
// turn and scrolls it into view once layout settles. Empty or unknown
// fragments leave the state untouched.
func (c *Controller) HandleDeepLink(fragment string) {
	target, ok := c.sections.FromFragment(fragment)
	if !ok {
		return
	}
	c.sched.Post(func() {
		c.RequestTransition(target)
		c.sched.AfterFunc(c.opts.DeepLinkSettle, func() {
			if c.active != target {
				return
			}
			c.view.ScrollIntoView(target)
		})
	})
}

// HandleNavClick handles a click on a nav link with the given href ("#blog").
func (c *Controller) HandleNavClick(href string) {
	if target, ok := c.sections.FromFragment(href); ok {
		c.RequestTransition(target)
	}
}

// HandleDotClick handles a click on the nav dot for name.
func (c *Controller) HandleDotClick(name string) {
	if target, ok := c.sections.Parse(name); ok {
		c.RequestTransition(target)
	}
}

// HandleDotKey handles a key press on a focused nav dot. Only Enter and
// Space activate it.
func (c *Controller) HandleDotKey(name, key string) {
	if key != "Enter" && key != " " {
		return
	}
	c.HandleDotClick(name)
}

// HandleKey handles a document-level key press. Arrow keys step to the
// adjacent section without wrapping.
func (c *Controller) HandleKey(key string) {
	var (
		target section.Section
		ok     bool
	)
	switch key {
	case "ArrowUp", "ArrowLeft":
		target, ok = c.sections.Prev(c.active)
	case "ArrowDown", "ArrowRight":
		target, ok = c.sections.Next(c.active)
	}
	if ok {
		c.RequestTransition(target)
	}
}

func (c *Controller) announce(text string) {
	id := c.opts.NewID()
	c.view.Announce(id, text)
	c.sched.AfterFunc(c.opts.AnnounceTTL, func() {
		c.view.RemoveAnnouncement(id)
	})
}

func (c *Controller) commit(from, to section.Section) {
	c.active = to
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(from, to)
	}
}
