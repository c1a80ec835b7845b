package deck

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// SchemaVersion is the only document version flashdeck reads or writes.
const SchemaVersion = 1

// Direction selects which side of a card is shown first.
type Direction string

const (
	QuestionFirst Direction = "Q2A"
	AnswerFirst   Direction = "A2Q"
)

// Toggled returns the opposite direction.
func (d Direction) Toggled() Direction {
	if d == AnswerFirst {
		return QuestionFirst
	}
	return AnswerFirst
}

// ParseDirection coerces a raw string to a Direction, defaulting to Q2A.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(AnswerFirst)) {
		return AnswerFirst
	}
	return QuestionFirst
}

// Card is a single question/answer pair. Identity is positional: a card is
// referred to by its index in the deck's card list.
type Card struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
	Archived bool   `json:"archived,omitempty"`
}

// Empty reports whether both sides are blank after trimming.
func (c Card) Empty() bool {
	return strings.TrimSpace(c.Question) == "" && strings.TrimSpace(c.Answer) == ""
}

// Defaults holds the study settings stored with the deck.
type Defaults struct {
	Direction Direction `json:"direction"`
	Shuffle   bool      `json:"shuffle"`
}

// Deck is the persisted document: a named, ordered set of cards plus study
// defaults. It is the unit of persistence and of import/export; saves always
// write the full document.
type Deck struct {
	SchemaVersion int      `json:"schemaVersion"`
	Name          string   `json:"name"`
	Cards         []Card   `json:"cards"`
	Defaults      Defaults `json:"defaults"`
}

// Decode parses and validates a deck document. Only schemaVersion 1 with a
// list-typed cards field is accepted; everything else is an error, never a
// panic. Per-card fields are coerced with safe defaults rather than failing
// the whole document on one malformed card.
func Decode(data []byte) (*Deck, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("not a valid deck document: %w", err)
	}
	if v, ok := raw["schemaVersion"].(float64); !ok || v != SchemaVersion {
		return nil, fmt.Errorf("unsupported schema version (want %d)", SchemaVersion)
	}
	rawCards, ok := raw["cards"].([]any)
	if !ok {
		return nil, errors.New("cards must be a list")
	}

	d := &Deck{
		SchemaVersion: SchemaVersion,
		Name:          asString(raw["name"]),
		Cards:         make([]Card, 0, len(rawCards)),
		Defaults:      Defaults{Direction: QuestionFirst},
	}
	for _, rc := range rawCards {
		m, _ := rc.(map[string]any)
		d.Cards = append(d.Cards, Card{
			Question: asString(m["q"]),
			Answer:   asString(m["a"]),
			Archived: asBool(m["archived"]),
		})
	}
	if m, ok := raw["defaults"].(map[string]any); ok {
		d.Defaults.Direction = ParseDirection(asString(m["direction"]))
		d.Defaults.Shuffle = asBool(m["shuffle"])
	}
	return d, nil
}

// Encode serializes the deck pretty-printed, always at schemaVersion 1.
func Encode(d *Deck) ([]byte, error) {
	out := *d
	out.SchemaVersion = SchemaVersion
	if out.Cards == nil {
		out.Cards = []Card{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return append(data, '\n'), nil
}

// Fingerprint returns a short, stable, order-sensitive digest of the deck's
// serialized form. It only detects "changed since last export"; collisions
// are acceptable and it is not cryptographic.
func Fingerprint(d *Deck) string {
	data, err := Encode(d)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return fmt.Sprintf("%016x", h.Sum64())
}

// ActiveIndices returns the positions of cards that take part in a study
// session: not archived, with non-empty trimmed text on at least one side.
func ActiveIndices(d *Deck) []int {
	idx := make([]int, 0, len(d.Cards))
	for i, c := range d.Cards {
		if c.Archived || c.Empty() {
			continue
		}
		idx = append(idx, i)
	}
	return idx
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// ExportFileName derives a filesystem-safe export filename from the set
// name. Whitespace becomes "-"; an empty result falls back to the default.
func ExportFileName(name string) string {
	s := strings.Join(strings.Fields(name), "-")
	s = unsafeFileChars.ReplaceAllString(s, "")
	s = strings.Trim(s, ".-")
	if s == "" {
		s = "flashdeck"
	}
	return s + ".json"
}

// New returns an empty deck with the given name and default settings.
func New(name string) *Deck {
	return &Deck{
		SchemaVersion: SchemaVersion,
		Name:          name,
		Cards:         []Card{},
		Defaults:      Defaults{Direction: QuestionFirst},
	}
}

// Sample returns the built-in first-run deck. It doubles as a cheat sheet
// for the study keys.
func Sample() *Deck {
	d := New("Sample deck")
	d.Cards = []Card{
		{Question: "What does **space** do while studying?", Answer: "Flips the current card."},
		{Question: "How do you move between cards?", Answer: "Right arrow advances, left arrow goes back."},
		{Question: "What does **g** do?", Answer: "Marks the current card as *got it* and archives it for this set."},
		{Question: "How do you reshuffle the remaining cards?", Answer: "Press **s**. From the done screen, **g** restarts too."},
		{Question: "How do you study answers-first?", Answer: "Press **d** to toggle the direction."},
	}
	return d
}
