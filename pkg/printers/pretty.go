package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/anthem/pkg/command"
)

// PrettyPrint renders replies and tables for the terminal. With JSON set,
// replies are written as one JSON object per line instead.
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
	JSON   bool
}

var (
	spacing = strings.Repeat(" ", len("#00000  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

// Notify prints each reply on its own line.
func (pp *PrettyPrint) Notify(replies ...command.Reply) {
	if pp.JSON {
		for _, r := range replies {
			b, err := json.Marshal(r)
			if err != nil {
				_, _ = fmt.Fprintf(pp.out(), "{\"error\": %q}\n", err.Error())
				continue
			}
			_, _ = fmt.Fprintln(pp.out(), string(b))
		}
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, r := range replies {
		if pp.ShowID {
			id := fmt.Sprintf("#%d", r.RequestID)
			_, _ = y.Fprint(pp.out(), id)
			_, _ = y.Fprint(pp.out(), strings.Repeat(" ", max(1, len(spacing)-len(id))))
		}
		_, _ = kindColor(r.Kind).Fprint(pp.out(), string(r.Kind))
		_, _ = fmt.Fprintln(pp.out(), " "+Detail(r))
	}
}

// JSONValue writes v as a single JSON line.
func (pp *PrettyPrint) JSONValue(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		_, _ = fmt.Fprintf(pp.out(), "{\"error\": %q}\n", err.Error())
		return
	}
	_, _ = fmt.Fprintln(pp.out(), string(b))
}

// Detail summarises the ids and values a reply carries.
func Detail(r command.Reply) string {
	var parts []string
	if r.ProjectID != 0 {
		parts = append(parts, fmt.Sprintf("project=%d", r.ProjectID))
	}
	if r.PatternID != 0 {
		parts = append(parts, fmt.Sprintf("pattern=%d", r.PatternID))
	}
	if r.Pattern != nil {
		parts = append(parts, fmt.Sprintf("name=%q index=%d", r.Pattern.Name, r.Index))
	}
	if r.GeneratorID != 0 {
		parts = append(parts, fmt.Sprintf("generator=%d", r.GeneratorID))
	}
	if r.Note != nil {
		parts = append(parts, fmt.Sprintf("note=%d key=%d offset=%d length=%d",
			r.Note.ID, r.Note.Key, r.Note.Offset, r.Note.Length))
	}
	if r.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", r.Path))
	}
	return strings.Join(parts, " ")
}

func kindColor(k command.Kind) *color.Color {
	switch k {
	case command.NothingChanged:
		return color.New(color.Faint, color.Italic)
	case command.PatternDeleted, command.NoteDeleted, command.ProjectClosed:
		return color.New(color.FgRed)
	case command.PatternAdded, command.NoteAdded, command.NewProjectCreated, command.ProjectLoaded:
		return color.New(color.FgGreen)
	case command.JournalEntryStarted, command.JournalEntryCommitted:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Bold)
	}
}
