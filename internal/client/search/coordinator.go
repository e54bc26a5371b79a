package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/avoronin/jotter/internal/client/api"
	"github.com/avoronin/jotter/internal/client/models"
	"github.com/avoronin/jotter/internal/logging"
	"github.com/avoronin/jotter/internal/timex"
)

const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultMinQuery     = 2
	DefaultSuggestLimit = 5
	DefaultSubmitLimit  = 20
)

// ErrClosed is returned by Submit after the session has been torn down.
var ErrClosed = errors.New("search session closed")

// Searcher is the query backend. api.Gateway satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, page, limit int) (*models.SearchPage, error)
}

// State is the visible state of one search pipeline.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session is a point-in-time view of the coordinator's visible state.
type Session struct {
	Query           string
	SuggestionState State
	Suggestions     []models.Entry
	ResultState     State
	Results         []models.Entry
	Total           int
}

// Options tune a coordinator; zero fields fall back to the defaults above.
type Options struct {
	Debounce     time.Duration
	MinQuery     int
	SuggestLimit int
	SubmitLimit  int
}

func (o *Options) fill() {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.MinQuery <= 0 {
		o.MinQuery = DefaultMinQuery
	}
	if o.SuggestLimit <= 0 {
		o.SuggestLimit = DefaultSuggestLimit
	}
	if o.SubmitLimit <= 0 {
		o.SubmitLimit = DefaultSubmitLimit
	}
}

// Coordinator runs one search session: a debounced suggestions pipeline and
// an immediate submission pipeline sharing a single monotonic sequence
// counter. A response is applied only when its sequence still equals the
// highest issued one at completion time; anything else is discarded, so a
// slow superseded response can never overwrite a newer one. In-flight work
// that is superseded is also cancelled at the transport, purely to stop
// wasted backend effort — the sequence check is the authoritative guard.
type Coordinator struct {
	searcher Searcher
	opts     Options
	log      logging.Logger

	mu             sync.Mutex
	query          string
	seq            int64 // monotonic, shared by both pipelines, never reused
	cancelInFlight context.CancelFunc
	suggestState   State
	suggestions    []models.Entry
	resultState    State
	results        []models.Entry
	total          int
	closed         bool

	updates  chan struct{}
	debounce timex.Debouncer
}

func New(searcher Searcher, opts Options, log logging.Logger) *Coordinator {
	opts.fill()
	return &Coordinator{
		searcher: searcher,
		opts:     opts,
		log:      log.With("component", "search"),
		updates:  make(chan struct{}, 1),
	}
}

// Updates signals after every applied change to the visible state. It is a
// level-triggered nudge for a rendering loop, closed by Close.
func (c *Coordinator) Updates() <-chan struct{} {
	return c.updates
}

// SetQuery records a keystroke-level query change. Queries below the minimum
// length clear the suggestions immediately; anything longer re-arms the
// debounce timer.
func (c *Coordinator) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.query = query

	if len(strings.TrimSpace(query)) < c.opts.MinQuery {
		c.debounce.Cancel()
		// bump the sequence so an in-flight completion lands stale
		c.supersedeLocked()
		c.suggestions = nil
		c.setSuggestStateLocked(StateIdle)
		return
	}

	c.debounce.Schedule(c.opts.Debounce, c.suggestTimerFired)
}

// Submit issues the full search immediately, superseding any pending
// debounce and any in-flight request from either pipeline. As an explicit
// user action it returns the outcome to the caller; visible state is still
// guarded by the sequence check.
func (c *Coordinator) Submit(ctx context.Context) (*models.SearchPage, error) {
	c.debounce.Cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	query := c.query
	seq, cctx := c.issueLocked(ctx)
	c.setResultStateLocked(StateLoading)
	c.mu.Unlock()

	page, err := c.searcher.Search(cctx, query, 1, c.opts.SubmitLimit)

	c.mu.Lock()
	if seq == c.seq {
		c.releaseInFlightLocked()
		switch {
		case err == nil:
			c.results = page.Entries
			c.total = page.Total
			c.setResultStateLocked(StateSuccess)
		case api.IsCancelled(err):
			// superseded: not a visible failure
		default:
			c.setResultStateLocked(StateError)
		}
	} else {
		c.log.Debug(ctx, "stale submission discarded", "seq", seq, "current", c.seq)
	}
	c.mu.Unlock()

	return page, err
}

// Clear resets the session: empty query, both pipelines idle, in-flight work
// cancelled. The sequence counter keeps increasing for the life of the
// session so late completions from before the clear stay inert.
func (c *Coordinator) Clear() {
	c.debounce.Cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.query = ""
	c.supersedeLocked()
	c.suggestions = nil
	c.results = nil
	c.total = 0
	c.suggestState = StateIdle
	c.resultState = StateIdle
	c.notifyLocked()
}

// Close tears the session down and closes the Updates channel.
func (c *Coordinator) Close() {
	c.debounce.Cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.supersedeLocked()
	c.mu.Unlock()

	close(c.updates)
}

// Snapshot returns a consistent copy of the visible state.
func (c *Coordinator) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Session{
		Query:           c.query,
		SuggestionState: c.suggestState,
		Suggestions:     append([]models.Entry(nil), c.suggestions...),
		ResultState:     c.resultState,
		Results:         append([]models.Entry(nil), c.results...),
		Total:           c.total,
	}
}

func (c *Coordinator) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// supersedeLocked invalidates any outstanding request: the sequence moves
// past it and its transport context is cancelled.
func (c *Coordinator) supersedeLocked() {
	c.seq++
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
}

// releaseInFlightLocked frees the context of a request that completed as the
// latest one.
func (c *Coordinator) releaseInFlightLocked() {
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
}

// issueLocked allocates the next sequence number and a cancellable context
// for a new request, superseding whatever was in flight.
func (c *Coordinator) issueLocked(parent context.Context) (int64, context.Context) {
	c.supersedeLocked()
	cctx, cancel := context.WithCancel(parent)
	c.cancelInFlight = cancel
	return c.seq, cctx
}

func (c *Coordinator) suggestTimerFired() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	// the latest query, not the one present when the timer was armed
	query := c.query
	if len(strings.TrimSpace(query)) < c.opts.MinQuery {
		c.mu.Unlock()
		return
	}
	seq, cctx := c.issueLocked(context.Background())
	c.setSuggestStateLocked(StateLoading)
	c.mu.Unlock()

	page, err := c.searcher.Search(cctx, query, 1, c.opts.SuggestLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug(cctx, "stale suggestion response discarded", "seq", seq, "current", c.seq)
		return
	}
	c.releaseInFlightLocked()

	switch {
	case err == nil:
		c.suggestions = page.Entries
		c.setSuggestStateLocked(StateSuccess)
	case api.IsCancelled(err):
		// cancelled requests never surface as errors
	default:
		c.log.Warn(cctx, "suggestion request failed", "query", query, "error", err)
		c.setSuggestStateLocked(StateError)
	}
}

func (c *Coordinator) setSuggestStateLocked(s State) {
	if c.suggestState != s {
		c.suggestState = s
	}
	c.notifyLocked()
}

func (c *Coordinator) setResultStateLocked(s State) {
	if c.resultState != s {
		c.resultState = s
	}
	c.notifyLocked()
}

func (c *Coordinator) notifyLocked() {
	if c.closed {
		return
	}
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
