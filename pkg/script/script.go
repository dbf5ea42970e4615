// Package script decodes YAML request scripts into service messages.
//
// A script is a list of requests applied in order:
//
//	requests:
//	  - op: init
//	  - op: add_pattern
//	    name: Intro
//	  - op: add_note
//	    pattern: $pattern
//	    generator: 1
//	    key: 60
//	  - op: move_note
//	    pattern: $pattern
//	    generator: 1
//	    note: $note
//	    key: 64
//	    offset: 4
//	  - op: undo
//
// Ids are generated while the script runs, so references may use
// placeholders: $active (the active project), $project (last project created
// or loaded), $pattern (last pattern added) and $note (last note added). An
// omitted project means $active.
package script

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/anthem/pkg/app"
	"tableflip.dev/anthem/pkg/model"
)

var (
	// ErrUnknownOp is returned for a step whose op names no request.
	ErrUnknownOp = errors.New("script: unknown op")
	// ErrBadRef is returned for a reference that is neither an id nor a
	// known placeholder.
	ErrBadRef = errors.New("script: bad reference")
	// ErrUnresolved is returned when a placeholder has no value yet.
	ErrUnresolved = errors.New("script: unresolved reference")
)

const (
	defaultVelocity = 100
	defaultLength   = 96
)

// Script is a decoded request script.
type Script struct {
	Requests []Step `yaml:"requests"`
}

// Step is one request. Which fields apply depends on Op.
type Step struct {
	ID        uint64 `yaml:"id,omitempty"`
	Op        string `yaml:"op"`
	Project   Ref    `yaml:"project,omitempty"`
	Pattern   Ref    `yaml:"pattern,omitempty"`
	Generator uint64 `yaml:"generator,omitempty"`
	Note      Ref    `yaml:"note,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Path      string `yaml:"path,omitempty"`
	Key       uint8  `yaml:"key,omitempty"`
	Velocity  *uint8 `yaml:"velocity,omitempty"`
	Length    uint64 `yaml:"length,omitempty"`
	Offset    uint64 `yaml:"offset,omitempty"`
}

// Ref is a literal id or a placeholder.
type Ref string

const (
	RefActive  Ref = "$active"
	RefProject Ref = "$project"
	RefPattern Ref = "$pattern"
	RefNote    Ref = "$note"
)

func (r Ref) validate() error {
	switch r {
	case "", RefActive, RefProject, RefPattern, RefNote:
		return nil
	}
	if _, err := strconv.ParseUint(string(r), 10, 64); err != nil {
		return fmt.Errorf("%w: %q", ErrBadRef, string(r))
	}
	return nil
}

var ops = map[string]bool{
	"init":                 true,
	"new_project":          true,
	"set_active_project":   true,
	"close_project":        true,
	"save_project":         true,
	"load_project":         true,
	"undo":                 true,
	"redo":                 true,
	"journal_start_entry":  true,
	"journal_commit_entry": true,
	"add_pattern":          true,
	"delete_pattern":       true,
	"add_note":             true,
	"delete_note":          true,
	"move_note":            true,
	"resize_note":          true,
}

// Ops lists the op names a script may use.
func Ops() []string {
	out := make([]string, 0, len(ops))
	for op := range ops {
		out = append(out, op)
	}
	return out
}

// Decode reads a script and validates every step's op and references.
func Decode(r io.Reader) (*Script, error) {
	s := &Script{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, fmt.Errorf("script: decode: %w", err)
	}
	for i := range s.Requests {
		step := &s.Requests[i]
		step.Op = strings.TrimSpace(step.Op)
		if !ops[step.Op] {
			return nil, fmt.Errorf("%w: step %d: %q", ErrUnknownOp, i+1, step.Op)
		}
		for _, ref := range []Ref{step.Project, step.Pattern, step.Note} {
			if err := ref.validate(); err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return s, nil
}

// Msg resolves the step's references and builds the request message.
func (s Step) Msg(r *Resolver) (app.Msg, error) {
	switch s.Op {
	case "init":
		return app.Init{}, nil
	case "new_project":
		return app.NewProject{}, nil
	case "load_project":
		if s.Path != "" {
			return app.LoadProject{Path: s.Path}, nil
		}
		id, err := r.resolve(s.Project, RefProject)
		if err != nil {
			return nil, err
		}
		return app.LoadProject{ProjectID: id}, nil
	}

	project, err := r.resolve(s.Project, RefActive)
	if err != nil {
		return nil, err
	}

	switch s.Op {
	case "set_active_project":
		return app.SetActiveProject{ProjectID: project}, nil
	case "close_project":
		return app.CloseProject{ProjectID: project}, nil
	case "save_project":
		return app.SaveProject{ProjectID: project, Path: s.Path}, nil
	case "undo":
		return app.Undo{ProjectID: project}, nil
	case "redo":
		return app.Redo{ProjectID: project}, nil
	case "journal_start_entry":
		return app.JournalStartEntry{ProjectID: project}, nil
	case "journal_commit_entry":
		return app.JournalCommitEntry{ProjectID: project}, nil
	case "add_pattern":
		return app.AddPattern{ProjectID: project, Name: s.Name}, nil
	}

	pattern, err := r.resolve(s.Pattern, RefPattern)
	if err != nil {
		return nil, err
	}
	if s.Op == "delete_pattern" {
		return app.DeletePattern{ProjectID: project, PatternID: pattern}, nil
	}
	if s.Op == "add_note" {
		velocity := uint8(defaultVelocity)
		if s.Velocity != nil {
			velocity = *s.Velocity
		}
		length := s.Length
		if length == 0 {
			length = defaultLength
		}
		return app.AddNote{
			ProjectID:   project,
			PatternID:   pattern,
			GeneratorID: s.Generator,
			Note:        model.Note{Key: s.Key, Velocity: velocity, Length: length, Offset: s.Offset},
		}, nil
	}

	note, err := r.resolve(s.Note, RefNote)
	if err != nil {
		return nil, err
	}
	switch s.Op {
	case "delete_note":
		return app.DeleteNote{ProjectID: project, PatternID: pattern, GeneratorID: s.Generator, NoteID: note}, nil
	case "move_note":
		return app.MoveNote{ProjectID: project, PatternID: pattern, GeneratorID: s.Generator, NoteID: note, Key: s.Key, Offset: s.Offset}, nil
	case "resize_note":
		if s.Length == 0 {
			return nil, fmt.Errorf("script: resize_note requires a length")
		}
		return app.ResizeNote{ProjectID: project, PatternID: pattern, GeneratorID: s.Generator, NoteID: note, Length: s.Length}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, s.Op)
}
