package app

import (
	"fmt"

	"tableflip.dev/anthem/pkg/history"
	"tableflip.dev/anthem/pkg/model"
)

// Store is the registry of open projects. Each project is paired with its
// own undo/redo queue and journal accumulator; the three records are created
// and destroyed together.
type Store struct {
	projects     map[uint64]*model.Project
	queues       map[uint64]*history.Queue
	accumulators map[uint64]*history.Accumulator
	order        []uint64
	activeID     uint64
}

// NewStore returns an empty store with no active project.
func NewStore() *Store {
	return &Store{
		projects:     make(map[uint64]*model.Project),
		queues:       make(map[uint64]*history.Queue),
		accumulators: make(map[uint64]*history.Accumulator),
	}
}

// Open registers p with a fresh queue and an inactive accumulator.
func (s *Store) Open(p *model.Project) error {
	if _, ok := s.projects[p.ID]; ok {
		return fmt.Errorf("%w: %d", ErrProjectOpen, p.ID)
	}
	s.projects[p.ID] = p
	s.queues[p.ID] = history.NewQueue()
	s.accumulators[p.ID] = history.NewAccumulator()
	s.order = append(s.order, p.ID)
	openProjects.Set(float64(len(s.order)))
	return nil
}

// Close drops the project with its history. Closing the active project
// leaves no project active.
func (s *Store) Close(id uint64) error {
	if _, ok := s.projects[id]; !ok {
		return invariant("close project", fmt.Errorf("%w: %d", ErrProjectNotFound, id))
	}
	delete(s.projects, id)
	delete(s.queues, id)
	delete(s.accumulators, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = 0
	}
	openProjects.Set(float64(len(s.order)))
	return nil
}

// SetActive selects the project untargeted operations apply to.
func (s *Store) SetActive(id uint64) error {
	if _, ok := s.projects[id]; !ok {
		return invariant("set active project", fmt.Errorf("%w: %d", ErrProjectNotFound, id))
	}
	s.activeID = id
	return nil
}

// Active returns the active project id, or 0 when none is active.
func (s *Store) Active() uint64 {
	return s.activeID
}

// Order returns open project ids in the order they were opened.
func (s *Store) Order() []uint64 {
	return append([]uint64(nil), s.order...)
}

// Len is the number of open projects.
func (s *Store) Len() int {
	return len(s.order)
}

// Project returns the open project with the given id.
func (s *Store) Project(id uint64) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, invariant("lookup project", fmt.Errorf("%w: %d", ErrProjectNotFound, id))
	}
	return p, nil
}

// Queue returns the undo/redo queue of an open project.
func (s *Store) Queue(id uint64) (*history.Queue, error) {
	q, ok := s.queues[id]
	if !ok {
		return nil, invariant("lookup queue", fmt.Errorf("%w: %d", ErrProjectNotFound, id))
	}
	return q, nil
}

// Accumulator returns the journal accumulator of an open project.
func (s *Store) Accumulator(id uint64) (*history.Accumulator, error) {
	a, ok := s.accumulators[id]
	if !ok {
		return nil, invariant("lookup accumulator", fmt.Errorf("%w: %d", ErrProjectNotFound, id))
	}
	return a, nil
}

type record struct {
	project     *model.Project
	queue       *history.Queue
	accumulator *history.Accumulator
}

func (s *Store) lookup(id uint64) (record, error) {
	p, err := s.Project(id)
	if err != nil {
		return record{}, err
	}
	return record{
		project:     p,
		queue:       s.queues[id],
		accumulator: s.accumulators[id],
	}, nil
}
