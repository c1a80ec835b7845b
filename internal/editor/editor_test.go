package editor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kokistudios/flashdeck/internal/deck"
)

// countingSave records save invocations and the card count at each save.
type countingSave struct {
	mu    sync.Mutex
	calls int32
	last  int
}

func (c *countingSave) fn(d *deck.Deck) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	atomic.AddInt32(&c.calls, 1)
	c.last = len(d.Cards)
	return nil
}

func (c *countingSave) count() int32 { return atomic.LoadInt32(&c.calls) }

func newTestEditor(t *testing.T, delay time.Duration) (*Editor, *countingSave) {
	t.Helper()
	d := deck.New("edit")
	d.Cards = []deck.Card{{Question: "q0", Answer: "a0"}}
	cs := &countingSave{}
	e := New(d, cs.fn, delay)
	t.Cleanup(e.Close)
	return e, cs
}

func str(s string) *string { return &s }

func TestMutations(t *testing.T) {
	e, _ := newTestEditor(t, time.Hour)

	i := e.AddCard()
	if i != 1 {
		t.Fatalf("AddCard returned %d, want 1", i)
	}
	if !e.Deck().Cards[1].Empty() {
		t.Error("added card should be empty")
	}

	if err := e.UpdateCard(1, Patch{Question: str("new q")}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	if got := e.Deck().Cards[1]; got.Question != "new q" || got.Answer != "" {
		t.Errorf("partial update wrong: %+v", got)
	}

	if err := e.SetArchived(0, true); err != nil {
		t.Fatalf("SetArchived: %v", err)
	}
	if !e.Deck().Cards[0].Archived {
		t.Error("card 0 not archived")
	}

	if err := e.DeleteCard(0); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}
	if len(e.Deck().Cards) != 1 || e.Deck().Cards[0].Question != "new q" {
		t.Errorf("delete removed the wrong card: %+v", e.Deck().Cards)
	}

	for _, bad := range []int{-1, 5} {
		if err := e.UpdateCard(bad, Patch{}); err == nil {
			t.Errorf("UpdateCard(%d) accepted out-of-range index", bad)
		}
		if err := e.DeleteCard(bad); err == nil {
			t.Errorf("DeleteCard(%d) accepted out-of-range index", bad)
		}
	}
}

func TestDebounce_OnlyLastChangePersisted(t *testing.T) {
	e, cs := newTestEditor(t, 30*time.Millisecond)

	for i := 0; i < 5; i++ {
		e.AddCard()
		time.Sleep(5 * time.Millisecond)
	}
	if cs.count() != 0 {
		t.Fatalf("saved %d times during burst, want 0", cs.count())
	}

	deadline := time.Now().Add(2 * time.Second)
	for cs.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if cs.count() != 1 {
		t.Fatalf("saves = %d, want exactly 1 after burst", cs.count())
	}
	cs.mu.Lock()
	last := cs.last
	cs.mu.Unlock()
	if last != 6 {
		t.Errorf("save saw %d cards, want the final 6", last)
	}
}

func TestClose_DiscardsPendingSave(t *testing.T) {
	e, cs := newTestEditor(t, 20*time.Millisecond)
	e.AddCard()
	e.Close()
	time.Sleep(80 * time.Millisecond)
	if cs.count() != 0 {
		t.Errorf("saves = %d after Close, want 0", cs.count())
	}
	// Mutations after Close must not re-arm the timer.
	e.AddCard()
	time.Sleep(80 * time.Millisecond)
	if cs.count() != 0 {
		t.Errorf("saves = %d after post-Close mutation, want 0", cs.count())
	}
}

func TestFlush_SavesImmediatelyAndCancelsTimer(t *testing.T) {
	e, cs := newTestEditor(t, 30*time.Millisecond)
	e.AddCard()
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if cs.count() != 1 {
		t.Fatalf("saves = %d after Flush, want 1", cs.count())
	}
	time.Sleep(100 * time.Millisecond)
	if cs.count() != 1 {
		t.Errorf("debounce fired after Flush: saves = %d", cs.count())
	}
}

func TestReplace_SwapsAndSaves(t *testing.T) {
	e, cs := newTestEditor(t, time.Hour)
	e.AddCard() // pending save that Replace must discard

	next := deck.New("imported")
	next.Cards = []deck.Card{{Question: "x", Answer: "y"}, {Question: "p", Answer: "q"}}
	if err := e.Replace(next); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if e.Deck() != next {
		t.Error("working copy not replaced")
	}
	if cs.count() != 1 {
		t.Fatalf("saves = %d after Replace, want 1", cs.count())
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.last != 2 {
		t.Errorf("Replace saved %d cards, want 2", cs.last)
	}
}
