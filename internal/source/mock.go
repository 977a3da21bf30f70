package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/contactdeck/internal/contact"
)

// Defaults for the simulated API.
const (
	DefaultPageSize    = 10
	DefaultLatency     = time.Second
	DefaultFailureRate = 0.3
)

// Source fetches the page the cursor points at and advances the cursor.
type Source interface {
	FetchPage(ctx context.Context, cursor *Cursor) ([]contact.Person, error)
}

// MockSource serves pages of an in-memory dataset with artificial latency
// and random failures.
type MockSource struct {
	people      []contact.Person
	pageSize    int
	latency     time.Duration
	failureRate float64
	policy      CursorPolicy
	message     string
	logger      zerolog.Logger

	// randMu guards rng; the cursor itself is not locked.
	randMu sync.Mutex
	rng    *rand.Rand
}

// Option configures a MockSource.
type Option func(*MockSource)

// WithPageSize sets the number of records per page. Values below 1 are ignored.
func WithPageSize(n int) Option {
	return func(s *MockSource) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLatency sets the simulated network delay. Negative values are ignored.
func WithLatency(d time.Duration) Option {
	return func(s *MockSource) {
		if d >= 0 {
			s.latency = d
		}
	}
}

// WithFailureRate sets the probability in [0,1] that a fetch fails.
func WithFailureRate(rate float64) Option {
	return func(s *MockSource) {
		switch {
		case rate < 0:
			s.failureRate = 0
		case rate > 1:
			s.failureRate = 1
		default:
			s.failureRate = rate
		}
	}
}

// WithCursorPolicy selects what a failure does to the cursor.
func WithCursorPolicy(p CursorPolicy) Option {
	return func(s *MockSource) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithSeed makes the failure draw deterministic.
func WithSeed(seed uint64) Option {
	return func(s *MockSource) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand injects the random source used for the failure draw.
func WithRand(r *rand.Rand) Option {
	return func(s *MockSource) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithFailureMessage overrides the message carried by simulated failures.
func WithFailureMessage(msg string) Option {
	return func(s *MockSource) {
		s.message = msg
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *MockSource) {
		s.logger = l
	}
}

// NewMockSource creates a source over people. The slice is not copied and
// must not be modified afterwards.
func NewMockSource(people []contact.Person, opts ...Option) *MockSource {
	s := &MockSource{
		people:      people,
		pageSize:    DefaultPageSize,
		latency:     DefaultLatency,
		failureRate: DefaultFailureRate,
		policy:      CursorAdvance,
		message:     DefaultFailureMessage,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// PageSize returns the configured page size.
func (s *MockSource) PageSize() int {
	return s.pageSize
}

// Policy returns the configured cursor policy.
func (s *MockSource) Policy() CursorPolicy {
	return s.policy
}

// Total returns the number of records in the dataset.
func (s *MockSource) Total() int {
	return len(s.people)
}

// FetchPage waits for the simulated latency, then either fails with a
// *FetchError or returns the page at cursor.Next(). Pages past the end of
// the dataset are empty. Cancelling ctx during the delay returns the
// context error and leaves the cursor untouched.
func (s *MockSource) FetchPage(ctx context.Context, cursor *Cursor) ([]contact.Person, error) {
	if cursor == nil {
		return nil, fmt.Errorf("%w: nil cursor", ErrFetchFailed)
	}
	start := time.Now()

	if err := s.wait(ctx); err != nil {
		FetchDuration.WithLabelValues("cancelled").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("fetching page %d: %w", cursor.Next(), err)
	}

	FetchAttempts.Inc()
	page := cursor.Next()

	if s.shouldFail() {
		cursor.record(s.policy, true)
		FetchFailures.Inc()
		FetchDuration.WithLabelValues("failed").Observe(time.Since(start).Seconds())
		s.logger.Debug().
			Int("page", page).
			Str("policy", string(s.policy)).
			Int("next", cursor.Next()).
			Msg("simulated fetch failure")
		return nil, &FetchError{Page: page, Message: s.message}
	}

	result := s.slice(page)
	cursor.record(s.policy, false)
	RecordsServed.Add(float64(len(result)))
	FetchDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	s.logger.Debug().
		Int("page", page).
		Int("records", len(result)).
		Dur("duration", time.Since(start)).
		Msg("page served")

	return result, nil
}

func (s *MockSource) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *MockSource) shouldFail() bool {
	if s.failureRate <= 0 {
		return false
	}
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return s.rng.Float64() < s.failureRate
}

// slice returns a copy of page index page.
func (s *MockSource) slice(page int) []contact.Person {
	start := page * s.pageSize
	if page < 0 || start >= len(s.people) {
		return []contact.Person{}
	}
	end := start + s.pageSize
	if end > len(s.people) {
		end = len(s.people)
	}
	out := make([]contact.Person, end-start)
	copy(out, s.people[start:end])
	return out
}
