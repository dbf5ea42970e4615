package script

import (
	"fmt"
	"strconv"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/command"
)

// Resolver tracks generated ids from replies so later steps can refer to
// them. It forwards every reply to Next. A pattern or note that is removed,
// by a delete or by undoing its add, clears the placeholder pointing at it
// until another add or a redo brings one back.
type Resolver struct {
	Active func() uint64
	Next   app.Notifier

	project uint64
	pattern uint64
	note    uint64
}

func (r *Resolver) Notify(replies ...command.Reply) {
	for _, reply := range replies {
		switch reply.Kind {
		case command.NewProjectCreated, command.ProjectLoaded:
			r.project = reply.ProjectID
		case command.PatternAdded:
			r.pattern = reply.PatternID
		case command.PatternDeleted:
			if r.pattern == reply.PatternID {
				r.pattern = 0
			}
		case command.NoteAdded:
			r.note = reply.NoteID
		case command.NoteDeleted:
			if r.note == reply.NoteID {
				r.note = 0
			}
		}
	}
	if r.Next != nil {
		r.Next.Notify(replies...)
	}
}

func (r *Resolver) resolve(ref, fallback Ref) (uint64, error) {
	if ref == "" {
		ref = fallback
	}
	var id uint64
	switch ref {
	case RefActive:
		if r.Active != nil {
			id = r.Active()
		}
	case RefProject:
		id = r.project
	case RefPattern:
		id = r.pattern
	case RefNote:
		id = r.note
	default:
		v, err := strconv.ParseUint(string(ref), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadRef, string(ref))
		}
		return v, nil
	}
	if id == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnresolved, ref)
	}
	return id, nil
}
