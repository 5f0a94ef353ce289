// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package progress shows escalating status messages while a long-running
// operation is in flight. It never alters the operation's result.
package progress

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// Milestone is a status message shown once the operation has run for After.
type Milestone struct {
	Message string
	After   time.Duration
}

// DefaultMilestones is the escalation table used by policy CLI commands.
var DefaultMilestones = []Milestone{ //nolint:gochecknoglobals // read-only table
	{Message: "Working on it…", After: 2 * time.Second},
	{Message: "Still working…", After: 10 * time.Second},
	{Message: "This is taking a while…", After: 30 * time.Second},
	{Message: "Large workspaces can take a few minutes, hang on…", After: 60 * time.Second},
	{Message: "Still running. The CLI has not reported a result yet.", After: 3 * time.Minute},
}

// Display renders one in-flight operation.
type Display interface {
	// Start shows the operation title.
	Start(title string)

	// Update replaces the status text.
	Update(message string)

	// Stop removes the indicator; err is the operation's outcome.
	Stop(err error)
}

// Timer is a scheduled callback that can be stopped.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. time.AfterFunc in production.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type wallClock struct{}

func (wallClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Reporter creates progress tickets.
type Reporter struct {
	display    Display
	scheduler  Scheduler
	milestones []Milestone
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithScheduler replaces the wall clock.
func WithScheduler(s Scheduler) Option {
	return func(r *Reporter) {
		r.scheduler = s
	}
}

// WithMilestones replaces the escalation table. Entries are ordered by After.
func WithMilestones(milestones []Milestone) Option {
	return func(r *Reporter) {
		r.milestones = sortedMilestones(milestones)
	}
}

// NewReporter creates a reporter rendering on display.
func NewReporter(display Display, opts ...Option) *Reporter {
	r := &Reporter{
		display:    display,
		scheduler:  wallClock{},
		milestones: sortedMilestones(DefaultMilestones),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Ticket is one in-flight progress display.
type Ticket struct {
	Title string
	// Cancellable is always false: a spawned process runs to completion.
	Cancellable bool

	display Display

	mu      sync.Mutex
	settled bool
	timers  []Timer
}

// Begin starts the display and schedules every milestone.
func (r *Reporter) Begin(title string) *Ticket {
	t := &Ticket{
		Title:   title,
		display: r.display,
	}

	r.display.Start(title)

	timers := make([]Timer, 0, len(r.milestones))
	for _, m := range r.milestones {
		message := m.Message
		timers = append(timers, r.scheduler.AfterFunc(m.After, func() {
			t.emit(message)
		}))
	}

	t.mu.Lock()
	t.timers = timers
	t.mu.Unlock()

	return t
}

func (t *Ticket) emit(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settled {
		return
	}

	t.display.Update(message)
}

// Settle stops every pending milestone and closes the display.
// Settling twice is a no-op.
func (t *Ticket) Settle(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.settled {
		return
	}

	t.settled = true

	for _, timer := range t.timers {
		timer.Stop()
	}

	t.timers = nil
	t.display.Stop(err)
}

// Settled reports whether the ticket's operation has finished.
func (t *Ticket) Settled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.settled
}

// Track runs op under a progress ticket titled title. A nil reporter or an
// empty title runs op undecorated.
func Track[T any](ctx context.Context, r *Reporter, title string, op func(context.Context) (T, error)) (result T, err error) {
	if r == nil || title == "" {
		return op(ctx)
	}

	ticket := r.Begin(title)

	defer func() {
		ticket.Settle(err)
	}()

	return op(ctx)
}

func sortedMilestones(in []Milestone) []Milestone {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b Milestone) int {
		return cmp.Compare(a.After, b.After)
	})

	return out
}
