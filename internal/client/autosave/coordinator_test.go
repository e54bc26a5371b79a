package autosave

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avoronin/jotter/internal/client/models"
	"github.com/avoronin/jotter/internal/logging"
)

type saveCall struct {
	id      string
	title   string
	content string
}

// fakeSaver records every call and can hold calls open on a gate so tests
// can observe the coordinator while a save is in flight.
type fakeSaver struct {
	mu          sync.Mutex
	drafts      []saveCall
	updates     []saveCall
	inFlight    int
	maxInFlight int
	nextID      int
	err         error

	block chan struct{} // when non-nil, every call waits on it
}

func (f *fakeSaver) enter(calls *[]saveCall, c saveCall) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	*calls = append(*calls, c)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	return f.block
}

func (f *fakeSaver) leave() (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	return f.err
}

func (f *fakeSaver) SaveDraft(ctx context.Context, id, title, content string) (*models.Entry, error) {
	block := f.enter(&f.drafts, saveCall{id: id, title: title, content: content})
	if block != nil {
		<-block
	}
	if err := f.leave(); err != nil {
		return nil, err
	}
	if id == "" {
		f.mu.Lock()
		f.nextID++
		id = "doc-" + strconv.Itoa(f.nextID)
		f.mu.Unlock()
	}
	return &models.Entry{ID: id, Title: title, Content: content, Status: models.LifecycleDraft}, nil
}

func (f *fakeSaver) UpdateEntry(ctx context.Context, id, title, content string) (*models.Entry, error) {
	block := f.enter(&f.updates, saveCall{id: id, title: title, content: content})
	if block != nil {
		<-block
	}
	if err := f.leave(); err != nil {
		return nil, err
	}
	return &models.Entry{ID: id, Title: title, Content: content, Status: models.LifecyclePublished}, nil
}

func (f *fakeSaver) draftCalls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.drafts...)
}

func (f *fakeSaver) updateCalls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]saveCall(nil), f.updates...)
}

func (f *fakeSaver) inFlightNow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *fakeSaver) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

const testDelay = 20 * time.Millisecond

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 2*time.Millisecond)
}

func TestCoordinator_DebounceCoalescesEdits(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	c.SetTitle("Hi")
	c.SetTitle("Hi there")

	waitFor(t, func() bool { return c.Status() == StatusSaved })

	calls := saver.draftCalls()
	require.Len(t, calls, 1)
	require.Equal(t, saveCall{id: "", title: "Hi there", content: ""}, calls[0])
}

func TestCoordinator_DirtyTracksPersistedSnapshot(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{ID: "doc-9", Title: "T", Content: "C", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	require.False(t, c.Dirty())
	require.Equal(t, StatusIdle, c.Status())

	c.SetContent("C2")
	require.True(t, c.Dirty())
	require.Equal(t, StatusUnsaved, c.Status())

	waitFor(t, func() bool { return c.Status() == StatusSaved })
	require.False(t, c.Dirty())
	require.False(t, c.LastSavedAt().IsZero())
}

func TestCoordinator_SingleFlightWithOneSlotBuffer(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	c := New(saver, Document{ID: "doc-9", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	c.SetContent("one")
	waitFor(t, func() bool { return saver.inFlightNow() == 1 })

	// two more edits while the first save is held open; each elapsed timer
	// overwrites the buffered slot, so only the newest survives
	c.SetContent("two")
	time.Sleep(2 * testDelay)
	c.SetContent("three")
	time.Sleep(2 * testDelay)

	close(saver.block)

	waitFor(t, func() bool { return c.Status() == StatusSaved && !c.Dirty() })

	calls := saver.draftCalls()
	require.Len(t, calls, 2)
	require.Equal(t, "one", calls[0].content)
	require.Equal(t, "three", calls[1].content)

	saver.mu.Lock()
	maxInFlight := saver.maxInFlight
	saver.mu.Unlock()
	require.Equal(t, 1, maxInFlight)
}

func TestCoordinator_NewDocumentIsCreatedOnce(t *testing.T) {
	saver := &fakeSaver{block: make(chan struct{})}
	c := New(saver, Document{Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	c.SetTitle("morning pages")
	waitFor(t, func() bool { return saver.inFlightNow() == 1 })

	c.SetContent("first line")
	time.Sleep(2 * testDelay)

	close(saver.block)

	waitFor(t, func() bool { return c.Status() == StatusSaved && !c.Dirty() })

	calls := saver.draftCalls()
	require.Len(t, calls, 2)

	var creations int
	for _, call := range calls {
		if call.id == "" {
			creations++
		}
	}
	require.Equal(t, 1, creations)
	require.Equal(t, "doc-1", calls[1].id)
	require.Equal(t, "doc-1", c.ID())
}

func TestCoordinator_SaveFailureKeepsEdits(t *testing.T) {
	saver := &fakeSaver{}
	saver.setErr(errors.New("boom"))
	c := New(saver, Document{ID: "doc-9", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	c.SetContent("precious words")

	waitFor(t, func() bool { return c.Status() == StatusError })
	require.Error(t, c.Err())
	require.True(t, c.Dirty())
	require.Equal(t, "precious words", c.Content())

	// backend recovers; an explicit save succeeds with the kept edits
	saver.setErr(nil)
	require.NoError(t, c.SaveNow(context.Background()))
	require.Equal(t, StatusSaved, c.Status())
	require.NoError(t, c.Err())
	require.False(t, c.Dirty())
}

func TestCoordinator_PublishedEntrySavesOnlyExplicitly(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{ID: "e1", Title: "T", Content: "C", Lifecycle: models.LifecyclePublished}, testDelay, logging.NewDiscard())
	defer c.Close()

	c.SetContent("C2")
	require.Equal(t, StatusUnsaved, c.Status())

	time.Sleep(4 * testDelay)
	require.Empty(t, saver.draftCalls())
	require.Empty(t, saver.updateCalls())

	require.NoError(t, c.SaveNow(context.Background()))

	require.Empty(t, saver.draftCalls())
	updates := saver.updateCalls()
	require.Len(t, updates, 1)
	require.Equal(t, saveCall{id: "e1", title: "T", content: "C2"}, updates[0])
}

func TestCoordinator_SaveNowCleanIsNoop(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{ID: "doc-9", Title: "T", Content: "C", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	require.NoError(t, c.SaveNow(context.Background()))
	require.Empty(t, saver.draftCalls())
	require.Equal(t, StatusIdle, c.Status())
}

func TestCoordinator_TransitionSequence(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{ID: "doc-9", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())
	defer c.Close()

	sub := c.Subscribe()

	c.SetContent("x")

	var got []Transition
	for tr := range sub {
		got = append(got, tr)
		if tr.To == StatusSaved {
			break
		}
	}

	require.Equal(t, []Transition{
		{From: StatusIdle, To: StatusUnsaved},
		{From: StatusUnsaved, To: StatusSaving},
		{From: StatusSaving, To: StatusSaved},
	}, got)
}

func TestCoordinator_Close(t *testing.T) {
	saver := &fakeSaver{}
	c := New(saver, Document{ID: "doc-9", Lifecycle: models.LifecycleDraft}, testDelay, logging.NewDiscard())

	sub := c.Subscribe()
	c.Close()

	_, open := <-sub
	require.False(t, open)

	require.ErrorIs(t, c.SaveNow(context.Background()), ErrClosed)

	// edits after teardown are inert
	c.SetContent("late")
	time.Sleep(2 * testDelay)
	require.Empty(t, saver.draftCalls())
}
