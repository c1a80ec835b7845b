package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kokistudios/flashdeck/internal/deck"
	"github.com/kokistudios/flashdeck/internal/editor"
	"github.com/kokistudios/flashdeck/internal/store"
)

func TestBold_ContainsText(t *testing.T) {
	Init(false, store.ThemeDark)
	result := Bold("hello")
	if !strings.Contains(result, "hello") {
		t.Errorf("Bold output should contain 'hello', got %q", result)
	}
}

func TestColorDisabled_PlainText(t *testing.T) {
	Init(true, store.ThemeAuto) // no color
	defer Init(false, store.ThemeDark)

	if Bold("hello") != "hello" {
		t.Errorf("expected plain text when color disabled, got %q", Bold("hello"))
	}
	if Red("error") != "error" {
		t.Errorf("expected plain text, got %q", Red("error"))
	}
	if Green("ok") != "ok" {
		t.Errorf("expected plain text, got %q", Green("ok"))
	}
	if Yellow("warn") != "warn" {
		t.Errorf("expected plain text, got %q", Yellow("warn"))
	}
	if Dim("dim") != "dim" {
		t.Errorf("expected plain text, got %q", Dim("dim"))
	}
}

func TestLoggerInitialized(t *testing.T) {
	Init(false, store.ThemeDark)
	if Logger == nil {
		t.Error("Logger should be initialized after Init()")
	}
}

func TestLogo_NoErrors(t *testing.T) {
	Init(false, store.ThemeDark)
	// Logo writes to stderr; just verify no panic
	Logo()
	LogoWithTagline("test tagline")
}

func TestRenderMarkdown_KeepsContent(t *testing.T) {
	Init(true, store.ThemeAuto)
	out := RenderMarkdown("plain **bold** text", 60)
	if !strings.Contains(out, "bold") {
		t.Errorf("rendered markdown lost content: %q", out)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a much longer string", 10, "a much l.."},
		{"multi\nline", 20, "multi line"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

// ---- study view ----

func studyFixture(t *testing.T) (StudyModel, *int) {
	t.Helper()
	Init(true, store.ThemeAuto)
	d := deck.New("fixture")
	d.Cards = []deck.Card{
		{Question: "q0", Answer: "a0"},
		{Question: "q1", Answer: "a1"},
		{Question: "q2", Answer: "a2"},
	}
	saves := 0
	m := NewStudy(d, func(*deck.Deck) error { saves++; return nil })
	return m, &saves
}

func press(t *testing.T, m tea.Model, msg tea.KeyMsg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStudy_AdvanceToDone(t *testing.T) {
	m, _ := studyFixture(t)
	var model tea.Model = m
	right := tea.KeyMsg{Type: tea.KeyRight}
	for i := 0; i < 5; i++ {
		model = press(t, model, right)
	}
	view := model.View()
	if !strings.Contains(view, "Set complete!") {
		t.Errorf("done view missing completion banner:\n%s", view)
	}
	if !strings.Contains(view, "100%") {
		t.Errorf("done view should show 100%%:\n%s", view)
	}
}

func TestStudy_FlipRepeatGuard(t *testing.T) {
	m, _ := studyFixture(t)
	var model tea.Model = m
	space := tea.KeyMsg{Type: tea.KeySpace}

	model = press(t, model, space)
	if !model.(StudyModel).sess.Flipped() {
		t.Fatal("first space should flip")
	}
	// Immediate repeat (key held) must not flip back.
	model = press(t, model, space)
	if !model.(StudyModel).sess.Flipped() {
		t.Error("auto-repeat space flipped the card again")
	}
}

func TestStudy_ArchivePersists(t *testing.T) {
	m, saves := studyFixture(t)
	var model tea.Model = m

	model = press(t, model, runes("g"))
	if *saves != 1 {
		t.Fatalf("saves = %d after archive, want 1", *saves)
	}
	sm := model.(StudyModel)
	if sm.sess.TotalActive() != 3 || sm.sess.Remaining() != 2 {
		t.Errorf("remaining = %d of %d", sm.sess.Remaining(), sm.sess.TotalActive())
	}
	if !sm.dk.Cards[0].Archived {
		t.Error("deck card not archived")
	}
	view := model.View()
	if !strings.Contains(view, "archived") {
		t.Errorf("archive confirmation missing from view:\n%s", view)
	}
}

func TestStudy_GotItRestartsWhenDone(t *testing.T) {
	m, _ := studyFixture(t)
	var model tea.Model = m
	right := tea.KeyMsg{Type: tea.KeyRight}
	for i := 0; i < 3; i++ {
		model = press(t, model, right)
	}
	if !model.(StudyModel).sess.Done() {
		t.Fatal("expected done")
	}
	model = press(t, model, runes("g"))
	sm := model.(StudyModel)
	if sm.sess.Done() || sm.sess.Cursor() != 0 {
		t.Errorf("g from done should restart: done=%v cursor=%d", sm.sess.Done(), sm.sess.Cursor())
	}
	if sm.sess.Remaining() != 3 {
		t.Errorf("restart lost cards: remaining=%d", sm.sess.Remaining())
	}
}

func TestStudy_ToggleDirectionShowsAnswerFirst(t *testing.T) {
	m, _ := studyFixture(t)
	var model tea.Model = m
	model = press(t, model, runes("d"))
	sm := model.(StudyModel)
	if front, _ := sm.sess.Front(); front != "a0" {
		t.Errorf("front after toggle = %q, want a0", front)
	}
	if !strings.Contains(model.View(), "A → Q") {
		t.Error("direction indicator not updated")
	}
}

// ---- edit view ----

func editFixture(t *testing.T) EditModel {
	t.Helper()
	Init(true, store.ThemeAuto)
	d := deck.New("editable")
	d.Cards = []deck.Card{{Question: "q0", Answer: "a0"}}
	ed := editor.New(d, func(*deck.Deck) error { return nil }, 0)
	t.Cleanup(ed.Close)
	return NewEdit(ed)
}

func TestEdit_AddOpensCardMode(t *testing.T) {
	var model tea.Model = editFixture(t)
	model = press(t, model, runes("a"))
	em := model.(EditModel)
	if em.mode != modeCard {
		t.Fatalf("mode = %d, want card mode", em.mode)
	}
	if len(em.ed.Deck().Cards) != 2 || em.cursor != 1 {
		t.Errorf("add did not append and focus: cards=%d cursor=%d", len(em.ed.Deck().Cards), em.cursor)
	}

	model = press(t, model, tea.KeyMsg{Type: tea.KeyEscape})
	if model.(EditModel).mode != modeList {
		t.Error("esc should return to the list")
	}
}

func TestEdit_TypingUpdatesCard(t *testing.T) {
	var model tea.Model = editFixture(t)
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = press(t, model, runes("!"))
	em := model.(EditModel)
	if got := em.ed.Deck().Cards[0].Question; !strings.Contains(got, "!") {
		t.Errorf("typed rune not applied to card: %q", got)
	}

	// Tab moves focus to the answer; typing lands there.
	model = press(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = press(t, model, runes("?"))
	em = model.(EditModel)
	if got := em.ed.Deck().Cards[0].Answer; !strings.Contains(got, "?") {
		t.Errorf("typed rune not applied to answer: %q", got)
	}
}

func TestEdit_ArchiveToggle(t *testing.T) {
	var model tea.Model = editFixture(t)
	model = press(t, model, tea.KeyMsg{Type: tea.KeySpace})
	em := model.(EditModel)
	if !em.ed.Deck().Cards[0].Archived {
		t.Fatal("space did not archive")
	}
	model = press(t, model, tea.KeyMsg{Type: tea.KeySpace})
	if model.(EditModel).ed.Deck().Cards[0].Archived {
		t.Error("second space did not restore")
	}
}

func TestEdit_DeleteNeedsConfirmation(t *testing.T) {
	var model tea.Model = editFixture(t)
	model = press(t, model, runes("x"))
	em := model.(EditModel)
	if em.mode != modeConfirmDelete {
		t.Fatal("x should ask for confirmation")
	}

	// Declining leaves everything untouched.
	model = press(t, model, runes("n"))
	em = model.(EditModel)
	if em.mode != modeList || len(em.ed.Deck().Cards) != 1 {
		t.Errorf("decline mutated state: mode=%d cards=%d", em.mode, len(em.ed.Deck().Cards))
	}

	model = press(t, model, runes("x"))
	model = press(t, model, runes("y"))
	if got := len(model.(EditModel).ed.Deck().Cards); got != 0 {
		t.Errorf("cards = %d after confirmed delete, want 0", got)
	}
}

func TestEdit_Rename(t *testing.T) {
	var model tea.Model = editFixture(t)
	model = press(t, model, runes("n"))
	if model.(EditModel).mode != modeName {
		t.Fatal("n should open rename")
	}
	model = press(t, model, runes("!"))
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	em := model.(EditModel)
	if em.mode != modeList || !strings.Contains(em.ed.Deck().Name, "!") {
		t.Errorf("rename not applied: mode=%d name=%q", em.mode, em.ed.Deck().Name)
	}
}
