package session

import (
	"math"
	"math/rand"

	"github.com/kokistudios/flashdeck/internal/deck"
)

// Session is the study-pass state machine over a deck snapshot. It owns a
// working order of active card indices and a cursor into it; the cursor
// sitting one past the end is the terminal "done" state. The order only
// ever shrinks (archiving mid-study) or is replaced wholesale (reshuffle);
// it is never appended to mid-session.
//
// A session is derived from the deck it was given; replacing the deck means
// building a new session, never merging into an old one.
type Session struct {
	deck        *deck.Deck
	order       []int
	cursor      int
	flipped     bool
	direction   deck.Direction
	totalActive int
	rng         *rand.Rand
}

// New derives a session from a deck: the active card indices in deck order,
// shuffled when the deck's defaults ask for it. rng may be nil to use the
// global source; tests inject a seeded one.
func New(d *deck.Deck, rng *rand.Rand) *Session {
	order := deck.ActiveIndices(d)
	if d.Defaults.Shuffle {
		deck.Shuffle(order, 0, rng)
	}
	return &Session{
		deck:        d,
		order:       order,
		direction:   d.Defaults.Direction,
		totalActive: len(order),
		rng:         rng,
	}
}

// Done reports whether the pass is complete.
func (s *Session) Done() bool { return s.cursor >= len(s.order) }

// Flip toggles which side of the current card is showing.
func (s *Session) Flip() { s.flipped = !s.flipped }

// Flipped reports whether the back side is showing.
func (s *Session) Flipped() bool { return s.flipped }

// Advance moves to the next card, saturating at done, and shows the front
// of whatever it lands on.
func (s *Session) Advance() {
	if s.cursor < len(s.order) {
		s.cursor++
	}
	s.flipped = false
}

// Retreat moves to the previous card, saturating at the first one.
func (s *Session) Retreat() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.flipped = false
}

// ArchiveCurrent marks the current card archived in the deck, drops it from
// the working order, and clamps the cursor. It returns the archived card's
// deck position and true, or -1 and false when the session is already done.
// The caller persists the deck.
func (s *Session) ArchiveCurrent() (int, bool) {
	if s.Done() {
		return -1, false
	}
	pos := s.order[s.cursor]
	s.deck.Cards[pos].Archived = true
	s.order = append(s.order[:s.cursor], s.order[s.cursor+1:]...)
	s.flipped = false
	if s.cursor >= len(s.order) {
		s.cursor = len(s.order) - 1
		if s.cursor < 0 {
			s.cursor = 0
		}
	}
	return pos, true
}

// Reshuffle reorders the whole working order and restarts from the top.
// From done this doubles as "go again" over the cards still in the order.
func (s *Session) Reshuffle() {
	deck.Shuffle(s.order, 0, s.rng)
	s.cursor = 0
	s.flipped = false
}

// ToggleDirection swaps which side is treated as the front.
func (s *Session) ToggleDirection() { s.direction = s.direction.Toggled() }

// Direction returns the current study direction.
func (s *Session) Direction() deck.Direction { return s.direction }

// Current returns the card under the cursor, or false when done.
func (s *Session) Current() (deck.Card, bool) {
	if s.Done() {
		return deck.Card{}, false
	}
	return s.deck.Cards[s.order[s.cursor]], true
}

// Front returns the side shown before flipping, honoring the direction.
func (s *Session) Front() (string, bool) {
	c, ok := s.Current()
	if !ok {
		return "", false
	}
	if s.direction == deck.AnswerFirst {
		return c.Answer, true
	}
	return c.Question, true
}

// Back returns the side revealed by flipping.
func (s *Session) Back() (string, bool) {
	c, ok := s.Current()
	if !ok {
		return "", false
	}
	if s.direction == deck.AnswerFirst {
		return c.Question, true
	}
	return c.Answer, true
}

// Cursor returns the position within the working order.
func (s *Session) Cursor() int { return s.cursor }

// Order returns a copy of the working order of deck positions.
func (s *Session) Order() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// TotalActive is the number of active cards when the session started.
func (s *Session) TotalActive() int { return s.totalActive }

// Remaining is the number of cards still ahead of the cursor, inclusive.
func (s *Session) Remaining() int {
	if s.Done() {
		return 0
	}
	return len(s.order) - s.cursor
}

// Learned is how many of the session's cards are behind the cursor or
// archived away.
func (s *Session) Learned() int { return s.totalActive - s.Remaining() }

// ProgressPercent is Learned over TotalActive in [0, 100]; an empty
// session reports 0.
func (s *Session) ProgressPercent() int {
	if s.totalActive == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.Learned()) / float64(s.totalActive)))
}
