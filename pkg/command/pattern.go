package command

import (
	"fmt"

	"tableflip.dev/anthem/pkg/model"
)

// AddPattern inserts a pattern into the song at Index.
type AddPattern struct {
	ProjectID uint64
	Pattern   *model.Pattern
	Index     int
}

func (c *AddPattern) Execute(p *model.Project, requestID uint64) []Reply {
	p.Song.InsertPattern(c.Pattern.Clone(), c.Index)
	return []Reply{{
		RequestID: requestID,
		Kind:      PatternAdded,
		ProjectID: c.ProjectID,
		PatternID: c.Pattern.ID,
		Index:     c.Index,
		Pattern:   c.Pattern.Clone(),
	}}
}

func (c *AddPattern) Rollback(p *model.Project, requestID uint64) []Reply {
	invariant(p.Song.RemovePattern(c.Pattern.ID), "remove pattern %d", c.Pattern.ID)
	return []Reply{{
		RequestID: requestID,
		Kind:      PatternDeleted,
		ProjectID: c.ProjectID,
		PatternID: c.Pattern.ID,
	}}
}

func (c *AddPattern) String() string {
	return fmt.Sprintf("add pattern %q", c.Pattern.Name)
}

// DeletePattern removes a pattern. Pattern is a snapshot taken before the
// deletion and Index its position, so rollback restores both.
type DeletePattern struct {
	ProjectID uint64
	Pattern   *model.Pattern
	Index     int
}

func (c *DeletePattern) Execute(p *model.Project, requestID uint64) []Reply {
	invariant(p.Song.RemovePattern(c.Pattern.ID), "remove pattern %d", c.Pattern.ID)
	return []Reply{{
		RequestID: requestID,
		Kind:      PatternDeleted,
		ProjectID: c.ProjectID,
		PatternID: c.Pattern.ID,
	}}
}

func (c *DeletePattern) Rollback(p *model.Project, requestID uint64) []Reply {
	p.Song.InsertPattern(c.Pattern.Clone(), c.Index)
	return []Reply{{
		RequestID: requestID,
		Kind:      PatternAdded,
		ProjectID: c.ProjectID,
		PatternID: c.Pattern.ID,
		Index:     c.Index,
		Pattern:   c.Pattern.Clone(),
	}}
}

func (c *DeletePattern) String() string {
	return fmt.Sprintf("delete pattern %q", c.Pattern.Name)
}
