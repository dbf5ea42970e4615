package printers

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
	"tableflip.dev/anthem/pkg/store"
)

const layoutStamp = "2006-01-02 15:04"

// Library renders stored projects as a table.
func (pp *PrettyPrint) Library(summaries ...store.Summary) {
	if len(summaries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no saved projects\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Patterns"), bold.Sprint("Notes"), bold.Sprint("Modified"))
	for _, s := range summaries {
		modified := "-"
		if !s.Modified.IsZero() {
			modified = s.Modified.Local().Format(layoutStamp)
		}
		tbl.AddRow(strconv.FormatUint(s.ID, 10), s.Patterns, s.Notes, modified)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// History renders a project's undo history. Entries at or after pointer have
// been undone and are shown faint.
func (pp *PrettyPrint) History(entries []command.Command, pointer int) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no history\n\n")
		return
	}

	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, c := range entries {
		marker := " "
		if i == pointer-1 {
			marker = ">"
		}
		desc := command.Describe(c)
		if i >= pointer {
			desc = faint.Sprint(desc)
		}
		tbl.AddRow(marker, i+1, desc)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Project renders the song as patterns with their notes.
func (pp *PrettyPrint) Project(p *model.Project) {
	state := "saved"
	if !p.Saved {
		state = "modified"
	}
	pp.Title(fmt.Sprintf("Project %d (%s)", p.ID, state))

	if len(p.Song.PatternOrder) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no patterns\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, id := range p.Song.PatternOrder {
		pattern := p.Song.Patterns[id]
		tbl.AddRow(color.New(color.Bold).Sprint(pattern.Name), fmt.Sprintf("%d notes", pattern.NoteCount()))
		gids := make([]uint64, 0, len(pattern.GeneratorNotes))
		for gid := range pattern.GeneratorNotes {
			gids = append(gids, gid)
		}
		sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
		for _, gid := range gids {
			for _, n := range pattern.GeneratorNotes[gid].Notes {
				tbl.AddRow("", fmt.Sprintf("gen %d  note %d  key %d  @%d  len %d", gid, n.ID, n.Key, n.Offset, n.Length))
			}
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
