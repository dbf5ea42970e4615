// Package ui is an interactive terminal editor for one project. Every edit
// goes through the app service, so the history pane shows exactly what undo
// and redo will replay.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
	"tableflip.dev/anthem/pkg/printers"
)

// ErrNoTTY is returned when stdout is not a terminal.
var ErrNoTTY = errors.New("ui: stdout is not a terminal")

const (
	maxKey      = 127
	offsetStep  = 24
	lengthStep  = 24
	defaultKey  = 60
	generators  = 4
	historyRows = 16
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
	paneStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selected     = lipgloss.NewStyle().Foreground(lipgloss.Color("218")).Bold(true)
	faint        = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	journalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// Model is the editor state.
type Model struct {
	svc     *app.Service
	replies *app.Collector
	ctx     context.Context

	project   uint64
	pattern   int
	note      int
	generator uint64
	request   uint64

	status string
	err    error

	keys     keyMap
	help     help.Model
	width    int
	height   int
	quitting bool
}

// New initialises the service with a fresh active project and returns an
// editor for it. The service's notifier is taken over by the editor.
func New(ctx context.Context, svc *app.Service) (Model, error) {
	m := Model{
		svc:       svc,
		replies:   &app.Collector{},
		ctx:       ctx,
		generator: 1,
		keys:      defaultKeys(),
		help:      help.New(),
	}
	svc.Notifier = m.replies
	if err := m.dispatch(app.Init{}); err != nil {
		return m, err
	}
	m.project = svc.Store.Active()
	return m, nil
}

// Run starts the editor on the terminal.
func Run(ctx context.Context, svc *app.Service) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return ErrNoTTY
	}
	m, err := New(ctx, svc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Up):
		if m.note > 0 {
			m.note--
		}
	case key.Matches(msg, k.Down):
		if m.note < len(m.notes())-1 {
			m.note++
		}
	case key.Matches(msg, k.NextPattern):
		if n := len(m.doc().Song.PatternOrder); n > 0 {
			m.pattern = (m.pattern + 1) % n
			m.note = 0
		}
	case key.Matches(msg, k.NextGen):
		m.generator = m.generator%generators + 1
		m.note = 0
	case key.Matches(msg, k.AddPattern):
		name := fmt.Sprintf("Pattern %d", len(m.doc().Song.PatternOrder)+1)
		if m.try(app.AddPattern{ProjectID: m.project, Name: name}) {
			m.pattern = len(m.doc().Song.PatternOrder) - 1
			m.note = 0
		}
	case key.Matches(msg, k.DelPattern):
		if pid, ok := m.patternID(); ok {
			m.try(app.DeletePattern{ProjectID: m.project, PatternID: pid})
		}
	case key.Matches(msg, k.AddNote):
		m.addNote()
	case key.Matches(msg, k.DelNote):
		m.editNote(func(pid uint64, n model.Note) app.Msg {
			return app.DeleteNote{ProjectID: m.project, PatternID: pid, GeneratorID: m.generator, NoteID: n.ID}
		})
	case key.Matches(msg, k.KeyUp):
		m.moveNote(1, 0)
	case key.Matches(msg, k.KeyDown):
		m.moveNote(-1, 0)
	case key.Matches(msg, k.Earlier):
		m.moveNote(0, -offsetStep)
	case key.Matches(msg, k.Later):
		m.moveNote(0, offsetStep)
	case key.Matches(msg, k.Longer):
		m.resizeNote(lengthStep)
	case key.Matches(msg, k.Shorter):
		m.resizeNote(-lengthStep)
	case key.Matches(msg, k.Undo):
		m.try(app.Undo{ProjectID: m.project})
	case key.Matches(msg, k.Redo):
		m.try(app.Redo{ProjectID: m.project})
	case key.Matches(msg, k.JournalOpen):
		m.try(app.JournalStartEntry{ProjectID: m.project})
	case key.Matches(msg, k.JournalDone):
		m.try(app.JournalCommitEntry{ProjectID: m.project})
	case key.Matches(msg, k.Save):
		m.try(app.SaveProject{ProjectID: m.project, Path: m.doc().FilePath})
	}
	m.clamp()
	return m, nil
}

func (m *Model) addNote() {
	pid, ok := m.patternID()
	if !ok {
		m.status = "add a pattern first (p)"
		return
	}
	var offset uint64
	for _, n := range m.notes() {
		if end := n.Offset + n.Length; end > offset {
			offset = end
		}
	}
	if m.try(app.AddNote{
		ProjectID:   m.project,
		PatternID:   pid,
		GeneratorID: m.generator,
		Note:        model.Note{Key: defaultKey, Velocity: 100, Length: 96, Offset: offset},
	}) {
		m.note = len(m.notes()) - 1
	}
}

func (m *Model) moveNote(dKey, dOffset int) {
	m.editNote(func(pid uint64, n model.Note) app.Msg {
		k := int(n.Key) + dKey
		if k < 0 {
			k = 0
		}
		if k > maxKey {
			k = maxKey
		}
		off := int64(n.Offset) + int64(dOffset)
		if off < 0 {
			off = 0
		}
		return app.MoveNote{ProjectID: m.project, PatternID: pid, GeneratorID: m.generator,
			NoteID: n.ID, Key: uint8(k), Offset: uint64(off)}
	})
}

func (m *Model) resizeNote(delta int) {
	m.editNote(func(pid uint64, n model.Note) app.Msg {
		length := int64(n.Length) + int64(delta)
		if length < lengthStep {
			length = lengthStep
		}
		return app.ResizeNote{ProjectID: m.project, PatternID: pid, GeneratorID: m.generator,
			NoteID: n.ID, Length: uint64(length)}
	})
}

func (m *Model) editNote(build func(patternID uint64, n model.Note) app.Msg) {
	pid, ok := m.patternID()
	notes := m.notes()
	if !ok || m.note >= len(notes) {
		m.status = "no note selected"
		return
	}
	m.try(build(pid, notes[m.note]))
}

// try dispatches msg and records the outcome in the status line.
func (m *Model) try(msg app.Msg) bool {
	if err := m.dispatch(msg); err != nil {
		m.err = err
		return false
	}
	return true
}

func (m *Model) dispatch(msg app.Msg) error {
	m.request++
	m.replies.Take()
	err := m.svc.Handle(m.ctx, m.request, msg)
	replies := m.replies.Take()
	m.err = nil
	if len(replies) > 0 {
		parts := make([]string, 0, len(replies))
		for _, r := range replies {
			parts = append(parts, string(r.Kind))
		}
		last := replies[len(replies)-1]
		m.status = strings.Join(parts, ", ") + "  " + printers.Detail(last)
	}
	return err
}

func (m *Model) doc() *model.Project {
	p, err := m.svc.Store.Project(m.project)
	if err != nil {
		return model.New()
	}
	return p
}

func (m *Model) patternID() (uint64, bool) {
	order := m.doc().Song.PatternOrder
	if m.pattern < 0 || m.pattern >= len(order) {
		return 0, false
	}
	return order[m.pattern], true
}

func (m *Model) notes() []model.Note {
	pid, ok := m.patternID()
	if !ok {
		return nil
	}
	gn, ok := m.doc().Song.Patterns[pid].GeneratorNotes[m.generator]
	if !ok {
		return nil
	}
	return gn.Notes
}

func (m *Model) clamp() {
	if n := len(m.doc().Song.PatternOrder); m.pattern >= n {
		m.pattern = n - 1
	}
	if m.pattern < 0 {
		m.pattern = 0
	}
	if n := len(m.notes()); m.note >= n {
		m.note = n - 1
	}
	if m.note < 0 {
		m.note = 0
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	p := m.doc()

	header := titleStyle.Render(fmt.Sprintf("anthem  project %d", m.project))
	if !p.Saved {
		header += faint.Render("  (modified)")
	}
	if acc, err := m.svc.Store.Accumulator(m.project); err == nil && acc.Active() {
		header += "  " + journalStyle.Render(fmt.Sprintf("JOURNAL %d pending", acc.Pending()))
	}

	left := paneStyle.Render(m.songView(p))
	right := paneStyle.Render(m.historyView())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := faint.Render(m.status)
	if m.err != nil {
		status = errStyle.Render("ERR: " + m.err.Error())
	}
	return strings.Join([]string{header, body, status, m.help.View(m.keys)}, "\n")
}

func (m Model) songView(p *model.Project) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Patterns") + "\n")
	if len(p.Song.PatternOrder) == 0 {
		b.WriteString(faint.Render("no patterns") + "\n")
	}
	for i, id := range p.Song.PatternOrder {
		line := fmt.Sprintf("%d %s", id, p.Song.Patterns[id].Name)
		if i == m.pattern {
			line = selected.Render("» " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("Generator %d", m.generator)) + "\n")
	notes := m.notes()
	if len(notes) == 0 {
		b.WriteString(faint.Render("no notes") + "\n")
	}
	for i, n := range notes {
		line := fmt.Sprintf("#%-4d key %3d  vel %3d  at %5d  len %4d", n.ID, n.Key, n.Velocity, n.Offset, n.Length)
		if i == m.note {
			line = selected.Render("» " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) historyView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History") + "\n")
	q, err := m.svc.Store.Queue(m.project)
	if err != nil || q.Len() == 0 {
		b.WriteString(faint.Render("nothing to undo"))
		return b.String()
	}
	entries := q.Entries()
	start := 0
	if len(entries) > historyRows {
		start = len(entries) - historyRows
	}
	for i := start; i < len(entries); i++ {
		line := command.Describe(entries[i])
		switch {
		case i == q.Pointer()-1:
			line = selected.Render("> " + line)
		case i >= q.Pointer():
			line = faint.Render("  " + line)
		default:
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
