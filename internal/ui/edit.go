package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kokistudios/flashdeck/internal/editor"
)

type editMode int

const (
	modeList editMode = iota
	modeCard
	modeName
	modeConfirmDelete
)

type editKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Open    key.Binding
	Add     key.Binding
	Delete  key.Binding
	Archive key.Binding
	Rename  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Add, k.Archive, k.Help, k.Quit}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Add, k.Delete, k.Archive},
		{k.Rename, k.Help, k.Quit},
	}
}

var editKeys = editKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit card")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add card")),
	Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete card")),
	Archive: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "archive/restore")),
	Rename:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rename set")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "done")),
}

// EditModel is the bubbletea model for the edit view. All mutations flow
// through the editor so persistence stays debounced; the command running
// the program flushes on exit.
type EditModel struct {
	ed     *editor.Editor
	keys   editKeyMap
	help   help.Model
	mode   editMode
	cursor int
	// card editing
	question textarea.Model
	answer   textarea.Model
	onAnswer bool
	// set renaming
	name textinput.Model

	width  int
	status string
}

// NewEdit builds the edit view over an editor-owned working copy.
func NewEdit(ed *editor.Editor) EditModel {
	q := textarea.New()
	q.Placeholder = "Question"
	q.SetWidth(64)
	q.SetHeight(4)
	q.ShowLineNumbers = false

	a := textarea.New()
	a.Placeholder = "Answer"
	a.SetWidth(64)
	a.SetHeight(4)
	a.ShowLineNumbers = false

	n := textinput.New()
	n.Placeholder = "Set name"
	n.CharLimit = 120
	n.Width = 40

	return EditModel{
		ed:       ed,
		keys:     editKeys,
		help:     help.New(),
		question: q,
		answer:   a,
		name:     n,
		width:    80,
	}
}

func (m EditModel) Init() tea.Cmd { return nil }

func (m *EditModel) clampCursor() {
	if n := len(m.ed.Deck().Cards); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// openCard enters card mode with the inputs loaded from the selected card.
func (m *EditModel) openCard() tea.Cmd {
	c := m.ed.Deck().Cards[m.cursor]
	m.question.SetValue(c.Question)
	m.answer.SetValue(c.Answer)
	m.onAnswer = false
	m.answer.Blur()
	m.mode = modeCard
	return m.question.Focus()
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.help.Width = size.Width
		if w := size.Width - 8; w > 20 && w < 100 {
			m.question.SetWidth(w)
			m.answer.SetWidth(w)
		}
		return m, nil
	}

	switch m.mode {
	case modeCard:
		return m.updateCard(msg)
	case modeName:
		return m.updateName(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m.updateList(msg)
}

func (m EditModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	cards := m.ed.Deck().Cards

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(cards)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, m.keys.Add):
		m.cursor = m.ed.AddCard()
		m.status = ""
		return m, m.openCard()

	case key.Matches(keyMsg, m.keys.Open):
		if len(cards) > 0 {
			m.status = ""
			return m, m.openCard()
		}

	case key.Matches(keyMsg, m.keys.Delete):
		if len(cards) > 0 {
			m.mode = modeConfirmDelete
		}

	case key.Matches(keyMsg, m.keys.Archive):
		if len(cards) > 0 {
			archived := !cards[m.cursor].Archived
			if err := m.ed.SetArchived(m.cursor, archived); err == nil {
				if archived {
					m.status = "Card archived"
				} else {
					m.status = "Card restored"
				}
			}
		}

	case key.Matches(keyMsg, m.keys.Rename):
		m.name.SetValue(m.ed.Deck().Name)
		m.mode = modeName
		return m, m.name.Focus()
	}
	return m, nil
}

func (m EditModel) updateCard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = modeList
			m.question.Blur()
			m.answer.Blur()
			return m, nil
		case "tab", "shift+tab":
			m.onAnswer = !m.onAnswer
			if m.onAnswer {
				m.question.Blur()
				return m, m.answer.Focus()
			}
			m.answer.Blur()
			return m, m.question.Focus()
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	// Everything else belongs to the focused input; the study-style key
	// mapping is suspended while typing.
	var cmd tea.Cmd
	if m.onAnswer {
		m.answer, cmd = m.answer.Update(msg)
		v := m.answer.Value()
		_ = m.ed.UpdateCard(m.cursor, editor.Patch{Answer: &v})
	} else {
		m.question, cmd = m.question.Update(msg)
		v := m.question.Value()
		_ = m.ed.UpdateCard(m.cursor, editor.Patch{Question: &v})
	}
	return m, cmd
}

func (m EditModel) updateName(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = modeList
			m.name.Blur()
			return m, nil
		case "enter":
			m.ed.SetName(strings.TrimSpace(m.name.Value()))
			m.mode = modeList
			m.name.Blur()
			m.status = "Set renamed"
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m EditModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		if err := m.ed.DeleteCard(m.cursor); err == nil {
			m.status = "Card deleted"
		}
		m.clampCursor()
		m.mode = modeList
	case "n", "N", "esc":
		m.mode = modeList
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= n {
		return s
	}
	if n <= 2 {
		return s[:n]
	}
	return s[:n-2] + ".."
}

func (m EditModel) View() string {
	var b strings.Builder
	d := m.ed.Deck()

	title := d.Name
	if title == "" {
		title = "(unnamed set)"
	}
	b.WriteString("\n  " + boldStyle.Render(title) + dimStyle.Render(fmt.Sprintf("  %d cards", len(d.Cards))) + "\n\n")

	switch m.mode {
	case modeName:
		b.WriteString("  " + promptStyle.Render("Rename set") + "\n\n")
		b.WriteString("  " + m.name.View() + "\n\n")
		b.WriteString("  " + dimStyle.Render("enter save • esc cancel") + "\n")
		return b.String()

	case modeConfirmDelete:
		q := truncate(d.Cards[m.cursor].Question, 40)
		b.WriteString("  " + warningStyle.Render(fmt.Sprintf("Delete card %d (%q)?", m.cursor+1, q)) + "\n\n")
		b.WriteString("  " + dimStyle.Render("y delete • n keep") + "\n")
		return b.String()

	case modeCard:
		focus := "question"
		if m.onAnswer {
			focus = "answer"
		}
		b.WriteString("  " + promptStyle.Render(fmt.Sprintf("Card %d", m.cursor+1)) +
			dimStyle.Render("  editing "+focus) + "\n\n")
		b.WriteString(indent(m.question.View(), 2) + "\n\n")
		b.WriteString(indent(m.answer.View(), 2) + "\n\n")
		b.WriteString("  " + dimStyle.Render("tab switch side • esc back to list") + "\n")
		return b.String()
	}

	if len(d.Cards) == 0 {
		b.WriteString("  " + dimStyle.Render("No cards yet — press a to add one.") + "\n")
	}
	for i, c := range d.Cards {
		cursor := "  "
		if i == m.cursor {
			cursor = promptStyle.Render("▸ ")
		}
		marker := " "
		if c.Archived {
			marker = dimStyle.Render("⊘")
		}
		q := c.Question
		if strings.TrimSpace(q) == "" {
			q = emptyFace
		}
		line := fmt.Sprintf("%s%s %2d  %s", cursor, marker, i+1, truncate(q, m.width-12))
		if c.Archived {
			line = dimStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n  " + accentStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys) + "\n")
	return b.String()
}

// RunEdit runs the edit view until the user quits, then flushes the final
// state and closes the editor so no stale debounced write can land later.
func RunEdit(ed *editor.Editor) error {
	p := tea.NewProgram(NewEdit(ed), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	_, runErr := p.Run()
	flushErr := ed.Flush()
	ed.Close()
	if flushErr != nil {
		Logger.Error("Final save failed", "err", flushErr)
	}
	if runErr != nil {
		return runErr
	}
	return flushErr
}
