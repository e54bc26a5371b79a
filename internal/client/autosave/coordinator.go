package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/jotter/internal/client/api"
	"github.com/avoronin/jotter/internal/client/models"
	"github.com/avoronin/jotter/internal/logging"
	"github.com/avoronin/jotter/internal/timex"
)

// DefaultDelay is the quiet period after the last edit before a draft is
// saved automatically.
const DefaultDelay = 1000 * time.Millisecond

// ErrClosed is returned by SaveNow after the editor has been torn down.
var ErrClosed = errors.New("editor closed")

// Saver is the persistence backend. api.Gateway satisfies it. SaveDraft with
// an empty id creates the document and returns the server-assigned
// identifier.
type Saver interface {
	SaveDraft(ctx context.Context, id, title, content string) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id, title, content string) (*models.Entry, error)
}

// Snapshot is a title/content pair, comparable by value.
type Snapshot struct {
	Title   string
	Content string
}

// Document seeds a coordinator: a loaded entry, or the zero value plus a
// lifecycle for a brand-new draft.
type Document struct {
	ID        string
	Title     string
	Content   string
	Lifecycle models.Lifecycle
}

// Coordinator owns save scheduling for one open document: debounced
// triggering, dirty tracking, and single-flight save execution with a
// one-slot edit buffer.
//
// Invariants:
//   - at most one save call is in flight at any instant;
//   - the buffered edit holds only the newest pending values, so the last
//     edit before the lock releases is always persisted eventually;
//   - a creation call happens iff the id is absent at save time, which
//     together with the single-flight lock bounds creations to exactly one;
//   - the debounce timer never saves a published document.
type Coordinator struct {
	saver Saver
	delay time.Duration
	log   logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	id        string
	lifecycle models.Lifecycle
	title     string
	content   string
	last      Snapshot // last persisted (or loaded) values
	status    Status
	statusErr error
	savedAt   time.Time

	saving   bool
	saveDone chan struct{}
	buffered *Snapshot

	closed bool
	subs   []chan Transition

	debounce timex.Debouncer
}

// New creates a coordinator for doc. The loaded values become the persisted
// baseline, so a freshly opened editor starts clean in StatusIdle.
func New(saver Saver, doc Document, delay time.Duration, log logging.Logger) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		saver:     saver,
		delay:     delay,
		log:       log.With("component", "autosave", "editor", uuid.NewString()),
		ctx:       ctx,
		cancel:    cancel,
		id:        doc.ID,
		lifecycle: doc.Lifecycle,
		title:     doc.Title,
		content:   doc.Content,
		last:      Snapshot{Title: doc.Title, Content: doc.Content},
		status:    StatusIdle,
	}
}

// ID returns the document identifier; empty until the first successful save
// of a brand-new document.
func (c *Coordinator) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the failure behind the current StatusError, nil otherwise.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusErr
}

// Dirty reports whether the current values differ from the last persisted
// snapshot.
func (c *Coordinator) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirtyLocked()
}

func (c *Coordinator) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title
}

func (c *Coordinator) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// LastSavedAt returns when the most recent save completed; zero if none has.
func (c *Coordinator) LastSavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savedAt
}

// Subscribe returns a channel of status transitions. The channel is closed
// by Close. Slow consumers lose transitions rather than blocking saving.
func (c *Coordinator) Subscribe() <-chan Transition {
	ch := make(chan Transition, 16)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// SetTitle records an edit to the title and re-arms the debounce timer.
func (c *Coordinator) SetTitle(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.title == value {
		return
	}
	c.title = value
	c.afterEditLocked()
}

// SetContent records an edit to the content and re-arms the debounce timer.
func (c *Coordinator) SetContent(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.content == value {
		return
	}
	c.content = value
	c.afterEditLocked()
}

func (c *Coordinator) afterEditLocked() {
	if c.dirtyLocked() && !c.saving && c.status != StatusUnsaved {
		c.setStatusLocked(StatusUnsaved, nil)
	}
	// the timer only ever fires saves for drafts; published entries are
	// saved exclusively through SaveNow
	if c.lifecycle == models.LifecycleDraft {
		c.debounce.Schedule(c.delay, c.timerFired)
	}
}

// SaveNow cancels the pending debounce and, if the document is dirty, saves
// immediately and waits for the result. It does nothing when clean. If a
// save is already in flight it waits for it first, then saves the current
// values if they still differ.
func (c *Coordinator) SaveNow(ctx context.Context) error {
	c.debounce.Cancel()

	for {
		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return ErrClosed
		}
		if !c.saving {
			break
		}
		done := c.saveDone
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	// lock held

	if !c.dirtyLocked() {
		c.mu.Unlock()
		return nil
	}

	snap := c.beginSaveLocked()
	c.mu.Unlock()

	return c.runSave(ctx, snap)
}

// Close tears the editor down: the pending timer is cancelled, any in-flight
// save is cancelled at the transport, and subscriber channels are closed.
func (c *Coordinator) Close() {
	c.debounce.Cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()

	c.cancel()
	for _, ch := range subs {
		close(ch)
	}
}

func (c *Coordinator) dirtyLocked() bool {
	return Snapshot{Title: c.title, Content: c.content} != c.last
}

func (c *Coordinator) setStatusLocked(to Status, err error) {
	if c.status == to {
		return
	}
	tr := Transition{From: c.status, To: to, Err: err}
	c.status = to
	c.statusErr = err
	for _, ch := range c.subs {
		select {
		case ch <- tr:
		default:
		}
	}
}

// beginSaveLocked acquires the save lock and returns the values to persist.
func (c *Coordinator) beginSaveLocked() Snapshot {
	c.saving = true
	c.saveDone = make(chan struct{})
	c.setStatusLocked(StatusSaving, nil)
	return Snapshot{Title: c.title, Content: c.content}
}

func (c *Coordinator) finishLocked() {
	c.saving = false
	close(c.saveDone)
}

// timerFired runs on the debounce goroutine when the quiet period elapses.
// It submits the latest values, not the ones present when the timer was
// armed. If a save is in flight the values go into the one-slot buffer,
// overwriting any previously buffered edit.
func (c *Coordinator) timerFired() {
	c.mu.Lock()
	if c.closed || c.lifecycle != models.LifecycleDraft || !c.dirtyLocked() {
		c.mu.Unlock()
		return
	}
	if c.saving {
		snap := Snapshot{Title: c.title, Content: c.content}
		c.buffered = &snap
		c.mu.Unlock()
		return
	}
	snap := c.beginSaveLocked()
	c.mu.Unlock()

	// the timer callback owns its failure handling: errors land in the
	// status machine, never in a panic
	_ = c.runSave(c.ctx, snap)
}

// runSave executes one save plus any immediate follow-up for a buffered
// edit. It must be entered with the save lock held (beginSaveLocked) and
// releases it before returning.
func (c *Coordinator) runSave(ctx context.Context, snap Snapshot) error {
	for {
		c.mu.Lock()
		id := c.id
		lifecycle := c.lifecycle
		c.mu.Unlock()

		var saved *models.Entry
		var err error
		if lifecycle == models.LifecyclePublished {
			saved, err = c.saver.UpdateEntry(ctx, id, snap.Title, snap.Content)
		} else {
			saved, err = c.saver.SaveDraft(ctx, id, snap.Title, snap.Content)
		}

		c.mu.Lock()
		if err != nil {
			c.buffered = nil
			if api.IsCancelled(err) {
				// superseded or torn down: not an error state
				c.setStatusLocked(StatusUnsaved, nil)
			} else {
				c.log.Error(ctx, "save failed", "id", id, "error", err)
				c.setStatusLocked(StatusError, err)
			}
			c.finishLocked()
			c.mu.Unlock()
			return err
		}

		if id == "" && saved != nil && saved.ID != "" {
			c.id = saved.ID
			c.log.Info(ctx, "document created", "id", saved.ID)
		}
		c.last = snap
		c.savedAt = time.Now()
		c.setStatusLocked(StatusSaved, nil)

		next := c.buffered
		c.buffered = nil
		if next != nil && *next != c.last {
			snap = *next
			c.setStatusLocked(StatusSaving, nil)
			c.mu.Unlock()
			continue
		}

		if c.dirtyLocked() {
			// edits arrived during the save but their timer has not
			// elapsed yet
			c.setStatusLocked(StatusUnsaved, nil)
		}
		c.finishLocked()
		c.mu.Unlock()
		return nil
	}
}
