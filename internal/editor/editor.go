package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/kokistudios/flashdeck/internal/deck"
)

// DefaultAutosaveDelay is how long the editor waits after the last change
// before persisting.
const DefaultAutosaveDelay = 500 * time.Millisecond

// SaveFunc persists the full deck document.
type SaveFunc func(*deck.Deck) error

// Patch carries partial card updates; nil fields are left alone.
type Patch struct {
	Question *string
	Answer   *string
}

// Editor mutates a working copy of the deck and debounces persistence: at
// most one save is pending, and each new change supersedes the prior,
// unsubmitted one. Close cancels the pending save outright; callers that
// want the final state on disk call Flush before tearing down.
type Editor struct {
	mu     sync.Mutex
	deck   *deck.Deck
	save   SaveFunc
	delay  time.Duration
	timer  *time.Timer
	closed bool
}

// New wraps a working deck copy. A non-positive delay uses the default.
func New(d *deck.Deck, save SaveFunc, delay time.Duration) *Editor {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Editor{deck: d, save: save, delay: delay}
}

// Deck returns the working copy.
func (e *Editor) Deck() *deck.Deck { return e.deck }

// AddCard appends an empty card and returns its index so the view can
// focus it.
func (e *Editor) AddCard() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deck.Cards = append(e.deck.Cards, deck.Card{})
	e.scheduleLocked()
	return len(e.deck.Cards) - 1
}

// UpdateCard applies a partial update to the card at i.
func (e *Editor) UpdateCard(i int, p Patch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.deck.Cards) {
		return fmt.Errorf("no card at index %d", i)
	}
	if p.Question != nil {
		e.deck.Cards[i].Question = *p.Question
	}
	if p.Answer != nil {
		e.deck.Cards[i].Answer = *p.Answer
	}
	e.scheduleLocked()
	return nil
}

// DeleteCard removes the card at i.
func (e *Editor) DeleteCard(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.deck.Cards) {
		return fmt.Errorf("no card at index %d", i)
	}
	e.deck.Cards = append(e.deck.Cards[:i], e.deck.Cards[i+1:]...)
	e.scheduleLocked()
	return nil
}

// SetArchived archives or restores the card at i.
func (e *Editor) SetArchived(i int, archived bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i < 0 || i >= len(e.deck.Cards) {
		return fmt.Errorf("no card at index %d", i)
	}
	e.deck.Cards[i].Archived = archived
	e.scheduleLocked()
	return nil
}

// SetName renames the set.
func (e *Editor) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.deck.Name = name
	e.scheduleLocked()
}

// Replace swaps in a new working copy wholesale (import, new set) and
// saves it immediately; the prior pending save, if any, is discarded.
func (e *Editor) Replace(d *deck.Deck) error {
	e.mu.Lock()
	e.cancelLocked()
	e.deck = d
	e.mu.Unlock()
	return e.save(d)
}

// scheduleLocked arms the debounce timer, superseding a pending save.
// Callers hold e.mu.
func (e *Editor) scheduleLocked() {
	if e.closed {
		return
	}
	e.cancelLocked()
	e.timer = time.AfterFunc(e.delay, func() {
		e.mu.Lock()
		if e.closed {
			e.mu.Unlock()
			return
		}
		d := e.deck
		e.timer = nil
		e.mu.Unlock()
		_ = e.save(d)
	})
}

func (e *Editor) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Flush cancels any pending save and persists right now.
func (e *Editor) Flush() error {
	e.mu.Lock()
	e.cancelLocked()
	d := e.deck
	e.mu.Unlock()
	return e.save(d)
}

// Close cancels the pending save without writing. After Close the editor
// schedules nothing further; a stale write after teardown cannot happen.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked()
	e.closed = true
}
