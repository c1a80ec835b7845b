package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kokistudios/flashdeck/internal/deck"
	"github.com/kokistudios/flashdeck/internal/session"
)

// placeholder shown in place of an empty card side.
const emptyFace = "· · ·"

// repeatGuard is the minimum interval between repeats of the one-shot
// actions (flip, archive). Terminals deliver key auto-repeat as plain
// presses, so a held key is filtered by time rather than by key-up events.
const repeatGuard = 250 * time.Millisecond

type studyKeyMap struct {
	Flip      key.Binding
	Next      key.Binding
	Prev      key.Binding
	GotIt     key.Binding
	Shuffle   key.Binding
	Direction key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func (k studyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flip, k.Next, k.GotIt, k.Help, k.Quit}
}

func (k studyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flip, k.Next, k.Prev},
		{k.GotIt, k.Shuffle, k.Direction},
		{k.Help, k.Quit},
	}
}

var studyKeys = studyKeyMap{
	Flip:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "flip")),
	Next:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
	Prev:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
	GotIt:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "got it / restart")),
	Shuffle:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
	Direction: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle direction")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// StudyModel is the bubbletea model for the study view. It owns a session
// over the deck snapshot it was built with and persists the deck whenever a
// card is archived.
type StudyModel struct {
	sess    *session.Session
	dk      *deck.Deck
	save    func(*deck.Deck) error
	keys    studyKeyMap
	help    help.Model
	bar     progress.Model
	width   int
	status  string
	lastKey string
	lastAt  time.Time
}

// NewStudy builds the study view over a deck snapshot. save persists the
// deck after an archive; the session itself never touches disk.
func NewStudy(d *deck.Deck, save func(*deck.Deck) error) StudyModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return StudyModel{
		sess:  session.New(d, nil),
		dk:    d,
		save:  save,
		keys:  studyKeys,
		help:  help.New(),
		bar:   bar,
		width: 80,
	}
}

func (m StudyModel) Init() tea.Cmd { return nil }

// oneShotAllowed filters key auto-repeat for actions that must fire once
// per physical press.
func (m *StudyModel) oneShotAllowed(k string) bool {
	now := time.Now()
	if k == m.lastKey && now.Sub(m.lastAt) < repeatGuard {
		m.lastAt = now
		return false
	}
	m.lastKey = k
	m.lastAt = now
	return true
}

func (m StudyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 10; w > 10 && w < 60 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Flip):
			if m.oneShotAllowed(msg.String()) {
				m.sess.Flip()
				m.status = ""
			}
			return m, nil

		case key.Matches(msg, m.keys.Next):
			m.sess.Advance()
			m.status = ""
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.sess.Retreat()
			m.status = ""
			return m, nil

		case key.Matches(msg, m.keys.GotIt):
			if m.sess.Done() {
				m.sess.Reshuffle()
				m.status = "Restarted"
				return m, nil
			}
			if !m.oneShotAllowed(msg.String()) {
				return m, nil
			}
			if _, ok := m.sess.ArchiveCurrent(); ok {
				if err := m.save(m.dk); err != nil {
					Logger.Error("Archive save failed", "err", err)
					m.status = "Archive not saved: " + err.Error()
				} else {
					m.status = fmt.Sprintf("Got it — card archived, %d to go", m.sess.Remaining())
				}
			}
			return m, nil

		case key.Matches(msg, m.keys.Shuffle):
			m.sess.Reshuffle()
			m.status = "Shuffled"
			return m, nil

		case key.Matches(msg, m.keys.Direction):
			m.sess.ToggleDirection()
			m.status = ""
			return m, nil
		}
	}
	return m, nil
}

func (m StudyModel) directionLabel() string {
	if m.sess.Direction() == deck.AnswerFirst {
		return "A → Q"
	}
	return "Q → A"
}

func (m StudyModel) View() string {
	var b strings.Builder

	title := boldStyle.Render(m.dk.Name)
	if m.dk.Name == "" {
		title = dimStyle.Render("(unnamed set)")
	}
	b.WriteString("\n  " + title + "  " + dimStyle.Render(m.directionLabel()) + "\n\n")

	if m.sess.Done() {
		b.WriteString("  " + successStyle.Render("Set complete!") + "\n\n")
	} else {
		face, _ := m.sess.Front()
		side := "front"
		if m.sess.Flipped() {
			face, _ = m.sess.Back()
			side = "back"
		}
		if strings.TrimSpace(face) == "" {
			face = dimStyle.Render(emptyFace)
		} else {
			face = RenderMarkdown(face, m.width-12)
		}
		card := cardBoxStyle.Width(min(m.width-4, 72)).Render(face)
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
			indent(card, 2),
			"  "+dimStyle.Render(fmt.Sprintf("%s · card %d of %d", side, m.sess.Cursor()+1, m.sess.Cursor()+m.sess.Remaining())),
		))
		b.WriteString("\n\n")
	}

	pct := m.sess.ProgressPercent()
	b.WriteString("  " + m.bar.ViewAs(float64(pct)/100) + dimStyle.Render(fmt.Sprintf("  %d%%", pct)) + "\n")
	b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%d learned · %d remaining", m.sess.Learned(), m.sess.Remaining())) + "\n")

	if m.status != "" {
		b.WriteString("\n  " + accentStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n  " + m.help.View(m.keys) + "\n")
	return b.String()
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

// RunStudy runs the study view until the user quits.
func RunStudy(d *deck.Deck, save func(*deck.Deck) error) error {
	p := tea.NewProgram(NewStudy(d, save), tea.WithOutput(os.Stderr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
