package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/contactdeck/internal/contact"
	"github.com/rshade/contactdeck/internal/source"
)

// stubSource returns queued outcomes in order and counts calls.
type stubSource struct {
	mu       sync.Mutex
	outcomes []outcome
	calls    int
	block    bool
}

type outcome struct {
	people []contact.Person
	err    error
}

func (s *stubSource) FetchPage(ctx context.Context, cursor *source.Cursor) ([]contact.Person, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	var o outcome
	if len(s.outcomes) > 0 {
		o = s.outcomes[0]
		s.outcomes = s.outcomes[1:]
	}
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return o.people, o.err
}

func (s *stubSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func page(from, n int) []contact.Person {
	out := make([]contact.Person, n)
	for i := range out {
		id := strconv.Itoa(from + i)
		out[i] = contact.Person{ID: id, FirstNameLastName: "Person " + id}
	}
	return out
}

func ok(from, n int) outcome { return outcome{people: page(from, n)} }

func failed(p int) outcome {
	return outcome{err: &source.FetchError{Page: p, Message: source.DefaultFailureMessage}}
}

// run executes cmd and feeds its message back into f.
func run(t *testing.T, f *Feed, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	return f.Update(cmd())
}

func TestFeed_InitLoadsFirstPage(t *testing.T) {
	src := &stubSource{outcomes: []outcome{ok(1, 10)}}
	f := New(context.Background(), src)

	assert.False(t, f.IsLoading())
	cmd := f.Init()
	require.NotNil(t, cmd)
	assert.True(t, f.IsLoading())
	assert.Nil(t, f.Init(), "initial fetch happens once")

	run(t, f, cmd)
	assert.False(t, f.IsLoading())
	assert.Len(t, f.Data(), 10)
	assert.True(t, f.HasData())
	assert.Empty(t, f.Err())
	assert.Equal(t, 1, f.Pages())
	assert.Equal(t, 1, src.Calls())
}

func TestFeed_LoadMoreAppends(t *testing.T) {
	src := &stubSource{outcomes: []outcome{ok(1, 10), ok(11, 10), ok(21, 0)}}
	f := New(context.Background(), src)

	run(t, f, f.Init())
	run(t, f, f.LoadMore())
	run(t, f, f.LoadMore())

	data := f.Data()
	require.Len(t, data, 20)
	assert.Equal(t, "1", data[0].ID)
	assert.Equal(t, "11", data[10].ID)
	assert.Equal(t, 3, f.Pages(), "empty page still counts as fetched")
}

func TestFeed_LoadMoreIsSingleFlight(t *testing.T) {
	src := &stubSource{outcomes: []outcome{ok(1, 10), ok(11, 10)}}
	f := New(context.Background(), src)

	first := f.Init()
	require.NotNil(t, first)
	assert.Nil(t, f.LoadMore())
	assert.Nil(t, f.LoadMore())

	run(t, f, first)
	assert.Equal(t, 1, src.Calls())

	second := f.LoadMore()
	require.NotNil(t, second)
	run(t, f, second)
	assert.Equal(t, 2, src.Calls())
	assert.Len(t, f.Data(), 20)
}

func TestFeed_FailureSetsErrorAndKeepsData(t *testing.T) {
	src := &stubSource{outcomes: []outcome{ok(1, 10), failed(1)}}
	f := New(context.Background(), src, WithErrorDisplay(time.Hour))
	defer f.Close()

	run(t, f, f.Init())
	expiry := run(t, f, f.LoadMore())

	assert.NotNil(t, expiry, "failure schedules an expiry")
	assert.Equal(t, "Something went wrong", f.Err())
	assert.Len(t, f.Data(), 10)
	assert.False(t, f.IsLoading())
}

func TestFeed_SuccessClearsError(t *testing.T) {
	src := &stubSource{outcomes: []outcome{failed(0), ok(11, 10)}}
	f := New(context.Background(), src, WithErrorDisplay(time.Hour))

	run(t, f, f.Init())
	require.NotEmpty(t, f.Err())

	run(t, f, f.LoadMore())
	assert.Empty(t, f.Err())
	assert.Len(t, f.Data(), 10)
}

func TestFeed_ErrorExpires(t *testing.T) {
	src := &stubSource{outcomes: []outcome{failed(0)}}
	f := New(context.Background(), src, WithErrorDisplay(10*time.Millisecond))

	expiry := run(t, f, f.Init())
	require.NotEmpty(t, f.Err())

	run(t, f, expiry)
	assert.Empty(t, f.Err())
}

func TestFeed_ResetErrorCancelsExpiry(t *testing.T) {
	src := &stubSource{outcomes: []outcome{failed(0)}}
	f := New(context.Background(), src, WithErrorDisplay(time.Hour))

	expiry := run(t, f, f.Init())
	require.NotNil(t, expiry)

	f.ResetError()
	assert.Empty(t, f.Err())

	done := make(chan tea.Msg, 1)
	go func() { done <- expiry() }()
	select {
	case msg := <-done:
		assert.Nil(t, msg, "cancelled expiry produces no message")
	case <-time.After(time.Second):
		t.Fatal("expiry was not cancelled")
	}
}

func TestFeed_StaleExpiryIgnored(t *testing.T) {
	src := &stubSource{outcomes: []outcome{
		failed(0),
		{err: &source.FetchError{Page: 1, Message: "upstream timeout"}},
	}}
	f := New(context.Background(), src, WithErrorDisplay(time.Millisecond))

	oldExpiry := run(t, f, f.Init())
	oldMsg := oldExpiry()

	newExpiry := run(t, f, f.LoadMore())
	require.NotNil(t, newExpiry)
	assert.Equal(t, "upstream timeout", f.Err())

	f.Update(oldMsg)
	assert.Equal(t, "upstream timeout", f.Err(), "expiry of an earlier error does not clear a newer one")

	run(t, f, newExpiry)
	assert.Empty(t, f.Err())
}

func TestFeed_SameErrorDoesNotRestartTimer(t *testing.T) {
	src := &stubSource{outcomes: []outcome{failed(0), failed(1)}}
	f := New(context.Background(), src, WithErrorDisplay(time.Millisecond))

	expiry := run(t, f, f.Init())
	require.NotNil(t, expiry)

	again := run(t, f, f.LoadMore())
	assert.Nil(t, again, "identical message keeps the running expiry")

	run(t, f, expiry)
	assert.Empty(t, f.Err())
}

func TestFeed_UnrecognisedErrorNotSurfaced(t *testing.T) {
	src := &stubSource{outcomes: []outcome{{err: errors.New("disk on fire")}}}
	f := New(context.Background(), src)

	cmd := run(t, f, f.Init())
	assert.Nil(t, cmd)
	assert.Empty(t, f.Err())
	assert.False(t, f.IsLoading())
}

func TestFeed_WrappedFetchFailureSurfaced(t *testing.T) {
	src := &stubSource{outcomes: []outcome{{err: fmt.Errorf("page 0: %w", source.ErrFetchFailed)}}}
	f := New(context.Background(), src, WithErrorDisplay(0))

	run(t, f, f.Init())
	assert.Equal(t, source.DefaultFailureMessage, f.Err())
	assert.False(t, f.IsLoading())
}

func TestFeed_CloseDiscardsInFlight(t *testing.T) {
	src := &stubSource{block: true}
	f := New(context.Background(), src)

	cmd := f.Init()
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	f.Close()
	f.Close()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		t.Fatal("fetch did not observe cancellation")
	}

	assert.Nil(t, f.Update(msg))
	assert.Empty(t, f.Err(), "cancellation is not an error")
	assert.Empty(t, f.Data())
	assert.False(t, f.IsLoading())
	assert.True(t, f.Closed())
	assert.Nil(t, f.LoadMore(), "closed feed does not fetch")
}

func TestFeed_ParentContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &stubSource{block: true}
	f := New(ctx, src)

	cmd := f.Init()
	cancel()

	assert.Nil(t, f.Update(cmd()))
	assert.Empty(t, f.Err())
}

func TestFeed_IgnoresOtherFeedsMessages(t *testing.T) {
	srcA := &stubSource{outcomes: []outcome{ok(1, 10)}}
	srcB := &stubSource{outcomes: []outcome{ok(100, 5)}}
	a := New(context.Background(), srcA)
	b := New(context.Background(), srcB)

	msgA := a.Init()()
	msgB := b.Init()()

	b.Update(msgA)
	assert.Empty(t, b.Data())

	a.Update(msgA)
	b.Update(msgB)
	assert.Len(t, a.Data(), 10)
	assert.Len(t, b.Data(), 5)
}

func TestFeed_StaleResultIgnored(t *testing.T) {
	src := &stubSource{outcomes: []outcome{ok(1, 10), ok(11, 10)}}
	f := New(context.Background(), src)

	msg := f.Init()()
	f.Update(msg)
	f.Update(msg)

	assert.Len(t, f.Data(), 10, "duplicate delivery is not appended twice")
}

func TestFeed_WithMockSource(t *testing.T) {
	people := make([]contact.Person, 25)
	for i := range people {
		people[i] = contact.Person{ID: strconv.Itoa(i + 1), FirstNameLastName: "P"}
	}
	cursor := source.NewCursor()
	src := source.NewMockSource(people, source.WithLatency(0), source.WithFailureRate(0))
	f := New(context.Background(), src, WithCursor(cursor))

	run(t, f, f.Init())
	run(t, f, f.LoadMore())
	run(t, f, f.LoadMore())
	run(t, f, f.LoadMore())

	assert.Len(t, f.Data(), 25)
	assert.Equal(t, 4, cursor.Next())
}
