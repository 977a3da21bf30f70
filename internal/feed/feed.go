// Package feed coordinates page fetches from a contact source with the
// browser: it owns the accumulated contacts, the loading flag and the
// transient error message.
//
// A Feed is driven by Bubble Tea. Init, LoadMore and Update return commands
// that perform the asynchronous work; their results come back as messages
// that must be passed to Update. All methods must be called from the
// program's update loop.
package feed

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/contactdeck/internal/contact"
	"github.com/rshade/contactdeck/internal/source"
)

// DefaultErrorDisplay is how long an error message stays visible.
const DefaultErrorDisplay = 3000 * time.Millisecond

// PageLoadedMsg carries the outcome of one fetch back to the feed.
type PageLoadedMsg struct {
	feed   *Feed
	token  uint64
	People []contact.Person
	Err    error
}

// errorExpiredMsg is delivered when an error's display time has elapsed.
type errorExpiredMsg struct {
	feed *Feed
	seq  uint64
}

// Feed is the fetch, pagination and error lifecycle of one browser session.
type Feed struct {
	src    source.Source
	cursor *source.Cursor
	logger zerolog.Logger

	errorDisplay time.Duration

	data    []contact.Person
	pages   int
	loading bool
	errMsg  string

	started bool
	closed  bool

	// token identifies the outstanding fetch; results with another token are stale.
	token uint64

	// errSeq identifies the current error; expiries for older errors are ignored.
	errSeq       uint64
	cancelExpiry context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Feed.
type Option func(*Feed)

// WithErrorDisplay sets how long errors stay visible. Zero disables auto-expiry.
func WithErrorDisplay(d time.Duration) Option {
	return func(f *Feed) {
		if d >= 0 {
			f.errorDisplay = d
		}
	}
}

// WithCursor makes the feed continue from an existing cursor.
func WithCursor(c *source.Cursor) Option {
	return func(f *Feed) {
		if c != nil {
			f.cursor = c
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Feed) {
		f.logger = l
	}
}

// New creates a feed reading from src. Cancelling ctx, or calling Close,
// aborts any in-flight fetch and discards its result.
func New(ctx context.Context, src source.Source, opts ...Option) *Feed {
	f := &Feed{
		src:          src,
		cursor:       source.NewCursor(),
		logger:       zerolog.Nop(),
		errorDisplay: DefaultErrorDisplay,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.ctx, f.cancel = context.WithCancel(ctx)
	return f
}

// Init starts the initial fetch. Only the first call has an effect.
func (f *Feed) Init() tea.Cmd {
	if f.started {
		return nil
	}
	f.started = true
	return f.fetch()
}

// LoadMore fetches the next page. It is a no-op while a fetch is
// outstanding or after Close.
func (f *Feed) LoadMore() tea.Cmd {
	f.started = true
	return f.fetch()
}

// ResetError clears the error message and cancels its pending expiry.
func (f *Feed) ResetError() {
	f.setError("")
}

// Close aborts the in-flight fetch and any pending error expiry. Results
// that arrive afterwards are ignored. Close is idempotent.
func (f *Feed) Close() {
	if f.closed {
		return
	}
	f.closed = true
	f.loading = false
	f.stopExpiry()
	f.cancel()
}

// Update applies fetch results and error expiries that belong to this feed.
// Messages for other feeds and stale messages are ignored.
func (f *Feed) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.feed != f {
			return nil
		}
		return f.handlePage(msg)
	case errorExpiredMsg:
		if msg.feed != f || msg.seq != f.errSeq || f.closed {
			return nil
		}
		f.logger.Debug().Msg("error message expired")
		f.cancelExpiry = nil
		f.errMsg = ""
		return nil
	}
	return nil
}

// Data returns the accumulated contacts in fetch order.
func (f *Feed) Data() []contact.Person {
	return f.data
}

// HasData reports whether any contact has been fetched.
func (f *Feed) HasData() bool {
	return len(f.data) > 0
}

// IsLoading reports whether a fetch is outstanding.
func (f *Feed) IsLoading() bool {
	return f.loading
}

// Err returns the current error message, or "".
func (f *Feed) Err() string {
	return f.errMsg
}

// Pages returns the number of successfully fetched pages.
func (f *Feed) Pages() int {
	return f.pages
}

// Closed reports whether Close was called.
func (f *Feed) Closed() bool {
	return f.closed
}

func (f *Feed) fetch() tea.Cmd {
	if f.closed || f.loading {
		return nil
	}
	f.loading = true
	f.token++

	token, ctx, src, cursor := f.token, f.ctx, f.src, f.cursor
	f.logger.Debug().Uint64("token", token).Msg("fetch started")

	return func() tea.Msg {
		people, err := src.FetchPage(ctx, cursor)
		return PageLoadedMsg{feed: f, token: token, People: people, Err: err}
	}
}

func (f *Feed) handlePage(msg PageLoadedMsg) tea.Cmd {
	if f.closed || msg.token != f.token || !f.loading {
		f.logger.Debug().Uint64("token", msg.token).Msg("discarding stale fetch result")
		return nil
	}
	f.loading = false

	if msg.Err == nil {
		f.data = append(f.data, msg.People...)
		f.pages++
		f.logger.Debug().
			Int("records", len(msg.People)).
			Int("total", len(f.data)).
			Msg("page appended")
		return f.setError("")
	}

	var fetchErr *source.FetchError
	switch {
	case errors.Is(msg.Err, context.Canceled):
		return nil
	case errors.As(msg.Err, &fetchErr):
		f.logger.Warn().Err(msg.Err).Int("page", fetchErr.Page).Msg("fetch failed")
		return f.setError(fetchErr.Error())
	case errors.Is(msg.Err, source.ErrFetchFailed):
		f.logger.Warn().Err(msg.Err).Msg("fetch failed")
		return f.setError(source.DefaultFailureMessage)
	default:
		// Only the source's own failure signal is shown to the user.
		f.logger.Warn().Err(msg.Err).Msg("fetch failed with unrecognised error; not surfaced")
		return nil
	}
}

// setError replaces the error message. A changed message cancels the
// previous expiry and, when non-empty, schedules a new one. Setting the
// same message again leaves the running expiry alone.
func (f *Feed) setError(msg string) tea.Cmd {
	if msg == f.errMsg {
		return nil
	}
	f.stopExpiry()
	f.errMsg = msg
	if msg == "" || f.errorDisplay == 0 || f.closed {
		return nil
	}

	ctx, cancel := context.WithCancel(f.ctx)
	f.cancelExpiry = cancel
	seq, d := f.errSeq, f.errorDisplay

	return func() tea.Msg {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			return errorExpiredMsg{feed: f, seq: seq}
		}
	}
}

func (f *Feed) stopExpiry() {
	f.errSeq++
	if f.cancelExpiry != nil {
		f.cancelExpiry()
		f.cancelExpiry = nil
	}
}
