package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/anthem/pkg/command"
	"tableflip.dev/anthem/pkg/model"
	"tableflip.dev/anthem/pkg/store"
)

type memoryPersistence struct {
	mu    sync.Mutex
	byID  map[uint64][]byte
	files map[string]*model.Project
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		byID:  make(map[uint64][]byte),
		files: make(map[string]*model.Project),
	}
}

func (m *memoryPersistence) Save(p *model.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = []byte(fmt.Sprint(p.ID))
	m.files[fmt.Sprint(p.ID)] = p.Clone()
	return nil
}

func (m *memoryPersistence) SaveFile(p *model.Project, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = p.Clone()
	return nil
}

func (m *memoryPersistence) Load(id uint64) (*model.Project, error) {
	return m.LoadFile(fmt.Sprint(id))
}

func (m *memoryPersistence) LoadFile(path string) (*model.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.files[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := p.Clone()
	cp.Saved = false
	cp.FilePath = ""
	return cp, nil
}

func (m *memoryPersistence) List(context.Context) []store.Summary { return nil }

func (m *memoryPersistence) Delete(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, fmt.Sprint(id))
	return nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

type fakeLauncher struct {
	started []uint64
	err     error
}

func (f *fakeLauncher) Start(_ context.Context, projectID uint64) error {
	if f.err != nil {
		return f.err
	}
	f.started = append(f.started, projectID)
	return nil
}

type harness struct {
	t   *testing.T
	svc *Service
	col *Collector
	req uint64
}

func newHarness(t *testing.T) *harness {
	col := &Collector{}
	svc := NewService(col)
	svc.Persistence = newMemoryPersistence()
	return &harness{t: t, svc: svc, col: col}
}

func (h *harness) handle(msg Msg) error {
	h.req++
	return h.svc.Handle(context.Background(), h.req, msg)
}

func (h *harness) must(msg Msg) []command.Reply {
	h.t.Helper()
	h.col.Take()
	require.NoError(h.t, h.handle(msg))
	return h.col.Take()
}

// project opens a project with one pattern and returns their ids.
func (h *harness) project() (projectID, patternID uint64) {
	h.t.Helper()
	replies := h.must(NewProject{})
	projectID = replies[0].ProjectID
	replies = h.must(AddPattern{ProjectID: projectID, Name: "Intro"})
	return projectID, replies[0].PatternID
}

func (h *harness) snapshot(id uint64) *model.Project {
	h.t.Helper()
	p, err := h.svc.Store.Project(id)
	require.NoError(h.t, err)
	cp := p.Clone()
	cp.Saved = false
	cp.FilePath = ""
	return cp
}

func (h *harness) current(id uint64) *model.Project {
	return h.snapshot(id)
}

func TestInitStartsEngineForActiveProject(t *testing.T) {
	h := newHarness(t)
	launcher := &fakeLauncher{}
	h.svc.Engine = launcher

	replies := h.must(Init{})
	require.Len(t, replies, 3)
	assert.Equal(t, []command.Kind{command.NewProjectCreated, command.ActiveProjectChanged, command.EngineStarted},
		[]command.Kind{replies[0].Kind, replies[1].Kind, replies[2].Kind})
	assert.Equal(t, h.svc.Store.Active(), replies[0].ProjectID)
	assert.Equal(t, []uint64{replies[0].ProjectID}, launcher.started)
}

func TestInitReportsEngineFailure(t *testing.T) {
	h := newHarness(t)
	h.svc.Engine = &fakeLauncher{err: errors.New("exec: not found")}

	err := h.handle(Init{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start engine")
	assert.NotZero(t, h.svc.Store.Active())
}

func TestExecuteAndPushThenUndoRestores(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	before := h.snapshot(pid)

	replies := h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 60, Velocity: 100, Length: 96}})
	require.Len(t, replies, 1)
	assert.Equal(t, command.NoteAdded, replies[0].Kind)
	assert.NotZero(t, replies[0].NoteID)

	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Pointer())

	h.must(Undo{ProjectID: pid})
	assert.Equal(t, before, h.current(pid))
	assert.Equal(t, 1, q.Pointer())
}

func TestMoveNoteUndoRedo(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	added := h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 2, Note: model.Note{Key: 60, Velocity: 100, Length: 96}})
	nid := added[0].NoteID
	before := h.snapshot(pid)

	replies := h.must(MoveNote{ProjectID: pid, PatternID: pat, GeneratorID: 2, NoteID: nid, Key: 64, Offset: 4})
	require.Len(t, replies, 1)
	assert.Equal(t, command.NoteMoved, replies[0].Kind)
	assert.Equal(t, uint8(64), replies[0].Note.Key)
	assert.Equal(t, uint64(4), replies[0].Note.Offset)
	after := h.snapshot(pid)

	replies = h.must(Undo{ProjectID: pid})
	assert.Equal(t, uint8(60), replies[0].Note.Key)
	assert.Equal(t, uint64(0), replies[0].Note.Offset)
	assert.Equal(t, before, h.current(pid))

	h.must(Redo{ProjectID: pid})
	assert.Equal(t, after, h.current(pid))
}

func TestUndoAllRedoAllRoundTrip(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	var states []*model.Project
	states = append(states, h.snapshot(pid))

	nid := h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 60, Length: 96}})[0].NoteID
	states = append(states, h.snapshot(pid))
	h.must(ResizeNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, NoteID: nid, Length: 48})
	states = append(states, h.snapshot(pid))
	h.must(AddPattern{ProjectID: pid, Name: "Verse"})
	states = append(states, h.snapshot(pid))
	h.must(DeleteNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, NoteID: nid})
	states = append(states, h.snapshot(pid))
	h.must(DeletePattern{ProjectID: pid, PatternID: pat})
	final := h.snapshot(pid)

	for i := len(states) - 1; i >= 0; i-- {
		h.must(Undo{ProjectID: pid})
		require.Equal(t, states[i], h.current(pid), "after undo to state %d", i)
	}
	for i := 1; i < len(states); i++ {
		h.must(Redo{ProjectID: pid})
		require.Equal(t, states[i], h.current(pid), "after redo to state %d", i)
	}
	h.must(Redo{ProjectID: pid})
	assert.Equal(t, final, h.current(pid))
}

func TestUndoAtBoundaryIsNothingChanged(t *testing.T) {
	h := newHarness(t)
	pid := h.must(NewProject{})[0].ProjectID
	before := h.snapshot(pid)

	replies := h.must(Undo{ProjectID: pid})
	require.Len(t, replies, 1)
	assert.Equal(t, command.NothingChanged, replies[0].Kind)

	replies = h.must(Redo{ProjectID: pid})
	require.Len(t, replies, 1)
	assert.Equal(t, command.NothingChanged, replies[0].Kind)
	assert.Equal(t, before, h.current(pid))
}

func TestNewEditDiscardsRedo(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	h.must(AddPattern{ProjectID: pid, Name: "B"})
	h.must(Undo{ProjectID: pid})
	h.must(AddPattern{ProjectID: pid, Name: "C"})

	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)
	assert.Equal(t, 2, q.Len())

	replies := h.must(Redo{ProjectID: pid})
	assert.Equal(t, command.NothingChanged, replies[0].Kind)
}

func TestJournalGroupsEditsIntoOneStep(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	before := h.snapshot(pid)
	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)
	depth := q.Len()

	h.must(JournalStartEntry{ProjectID: pid})
	n1 := h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 60, Length: 96}})[0].NoteID
	h.must(MoveNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, NoteID: n1, Key: 62, Offset: 96})
	h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 64, Length: 96}})
	assert.Equal(t, depth, q.Len(), "journal edits must not reach the queue before commit")

	p, err := h.svc.Store.Project(pid)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Song.Patterns[pat].NoteCount(), "edits are applied as they arrive")

	replies := h.must(JournalCommitEntry{ProjectID: pid})
	require.Len(t, replies, 1)
	assert.Equal(t, command.JournalEntryCommitted, replies[0].Kind)
	assert.Equal(t, depth+1, q.Len())
	after := h.snapshot(pid)

	replies = h.must(Undo{ProjectID: pid})
	require.Len(t, replies, 3)
	assert.Equal(t, []command.Kind{command.NoteDeleted, command.NoteMoved, command.NoteDeleted},
		[]command.Kind{replies[0].Kind, replies[1].Kind, replies[2].Kind})
	assert.Equal(t, before, h.current(pid))

	h.must(Redo{ProjectID: pid})
	assert.Equal(t, after, h.current(pid))
}

func TestEmptyJournalCommitKeepsHistory(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	h.must(AddPattern{ProjectID: pid, Name: "B"})
	h.must(Undo{ProjectID: pid})
	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)

	h.must(JournalStartEntry{ProjectID: pid})
	replies := h.must(JournalCommitEntry{ProjectID: pid})
	assert.Equal(t, command.JournalEntryCommitted, replies[0].Kind)
	assert.Equal(t, 2, q.Len())
	assert.True(t, q.CanRedo())
}

func TestUndoRejectedWhileJournalOpen(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	h.must(JournalStartEntry{ProjectID: pid})
	before := h.snapshot(pid)

	assert.ErrorIs(t, h.handle(Undo{ProjectID: pid}), ErrJournalOpen)
	assert.ErrorIs(t, h.handle(Redo{ProjectID: pid}), ErrJournalOpen)
	assert.Equal(t, before, h.current(pid))
}

func TestJournalIsPerProject(t *testing.T) {
	h := newHarness(t)
	a, _ := h.project()
	b, _ := h.project()

	h.must(JournalStartEntry{ProjectID: a})
	h.must(AddPattern{ProjectID: b, Name: "direct"})
	qb, err := h.svc.Store.Queue(b)
	require.NoError(t, err)
	assert.Equal(t, 2, qb.Len())

	replies := h.must(Undo{ProjectID: b})
	assert.Equal(t, command.PatternDeleted, replies[0].Kind)
}

func TestUnknownProjectIsInvariantError(t *testing.T) {
	h := newHarness(t)
	for _, msg := range []Msg{
		Undo{ProjectID: 999999},
		Redo{ProjectID: 999999},
		CloseProject{ProjectID: 999999},
		SetActiveProject{ProjectID: 999999},
		JournalStartEntry{ProjectID: 999999},
		AddPattern{ProjectID: 999999},
	} {
		err := h.handle(msg)
		require.Error(t, err, MsgName(msg))
		assert.True(t, IsInvariant(err), "%s: %v", MsgName(msg), err)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	}
	assert.Empty(t, h.col.Replies)
}

func TestMissingTargetRejectedBeforeMutation(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	before := h.snapshot(pid)
	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)

	err = h.handle(MoveNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, NoteID: 424242})
	assert.True(t, IsInvariant(err))
	assert.ErrorIs(t, err, model.ErrNoteNotFound)

	err = h.handle(DeletePattern{ProjectID: pid, PatternID: 424242})
	assert.ErrorIs(t, err, model.ErrPatternNotFound)

	assert.Equal(t, before, h.current(pid))
	assert.Equal(t, 1, q.Len())
}

func TestAddNoteRejectsDuplicateID(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	nid := h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 60}})[0].NoteID

	err := h.handle(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{ID: nid, Key: 61}})
	assert.True(t, IsInvariant(err))
}

func TestCloseAndReopen(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	h.must(SetActiveProject{ProjectID: pid})
	h.must(SaveProject{ProjectID: pid})

	replies := h.must(CloseProject{ProjectID: pid})
	assert.Equal(t, command.ProjectClosed, replies[0].Kind)
	assert.Zero(t, h.svc.Store.Active())
	_, err := h.svc.Store.Queue(pid)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = h.svc.Store.Accumulator(pid)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	replies = h.must(LoadProject{ProjectID: pid})
	assert.Equal(t, command.ProjectLoaded, replies[0].Kind)
	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Len(), "history is not persisted")
	acc, err := h.svc.Store.Accumulator(pid)
	require.NoError(t, err)
	assert.False(t, acc.Active())

	replies = h.must(Undo{ProjectID: pid})
	assert.Equal(t, command.NothingChanged, replies[0].Kind)
}

func TestLoadAlreadyOpen(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	h.must(SaveProject{ProjectID: pid})
	assert.ErrorIs(t, h.handle(LoadProject{ProjectID: pid}), ErrProjectOpen)
}

func TestSaveDoesNotTouchHistory(t *testing.T) {
	h := newHarness(t)
	pid, _ := h.project()
	p, err := h.svc.Store.Project(pid)
	require.NoError(t, err)
	assert.False(t, p.Saved)

	replies := h.must(SaveProject{ProjectID: pid, Path: "song.json"})
	assert.Equal(t, command.ProjectSaved, replies[0].Kind)
	assert.Equal(t, "song.json", replies[0].Path)
	assert.True(t, p.Saved)
	assert.Equal(t, "song.json", p.FilePath)

	q, err := h.svc.Store.Queue(pid)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	h.must(Undo{ProjectID: pid})
	assert.False(t, p.Saved)
}

func TestLoadFileRegistersProject(t *testing.T) {
	h := newHarness(t)
	pid, pat := h.project()
	h.must(AddNote{ProjectID: pid, PatternID: pat, GeneratorID: 1, Note: model.Note{Key: 60}})
	saved := h.snapshot(pid)
	h.must(SaveProject{ProjectID: pid, Path: "a.json"})
	h.must(CloseProject{ProjectID: pid})

	replies := h.must(LoadProject{Path: "a.json"})
	assert.Equal(t, pid, replies[0].ProjectID)
	assert.Equal(t, saved, h.current(pid))

	p, err := h.svc.Store.Project(pid)
	require.NoError(t, err)
	assert.True(t, p.Saved)
	assert.Equal(t, "a.json", p.FilePath)
	assert.Greater(t, model.NextID(), pid)
}

func TestSaveWithoutPersistence(t *testing.T) {
	h := newHarness(t)
	h.svc.Persistence = nil
	pid, _ := h.project()
	assert.ErrorIs(t, h.handle(SaveProject{ProjectID: pid}), ErrNoPersistence)
	assert.ErrorIs(t, h.handle(LoadProject{ProjectID: pid}), ErrNoPersistence)
}

func TestLoadMissingIsInvariant(t *testing.T) {
	h := newHarness(t)
	err := h.handle(LoadProject{ProjectID: 31337})
	assert.True(t, IsInvariant(err))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

type libraryConfig string

func (c libraryConfig) BasePath() string   { return string(c) }
func (c libraryConfig) EnginePath() string { return "" }
func (c libraryConfig) LogLevel() string   { return "debug" }

func TestLoadCorruptFileIsInvariant(t *testing.T) {
	dir := t.TempDir()
	lib, err := store.Load(libraryConfig(filepath.Join(dir, "lib")))
	require.NoError(t, err)

	h := newHarness(t)
	h.svc.Persistence = lib

	path := filepath.Join(dir, "null-generator.anthem")
	data := `{"id": 77, "song": {"patterns": {"5": {"id": 5, "name": "A", "generator_notes": {"1": null}}}, "pattern_order": [5]}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	err = h.handle(LoadProject{Path: path})
	assert.True(t, IsInvariant(err))
	assert.ErrorIs(t, err, store.ErrCorrupt)
	_, err = h.svc.Store.Project(77)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

type unknownMsg struct{}

func (unknownMsg) msgName() string { return "bogus" }

func TestUnknownMsg(t *testing.T) {
	h := newHarness(t)
	assert.ErrorIs(t, h.handle(unknownMsg{}), ErrUnknownMsg)
}

func TestStoreOrderAndClose(t *testing.T) {
	s := NewStore()
	a, b, c := model.New(), model.New(), model.New()
	for _, p := range []*model.Project{a, b, c} {
		require.NoError(t, s.Open(p))
	}
	assert.ErrorIs(t, s.Open(b), ErrProjectOpen)
	require.NoError(t, s.SetActive(b.ID))

	require.NoError(t, s.Close(b.ID))
	assert.Equal(t, []uint64{a.ID, c.ID}, s.Order())
	assert.Zero(t, s.Active())
	assert.Equal(t, 2, s.Len())

	require.NoError(t, s.SetActive(c.ID))
	require.NoError(t, s.Close(a.ID))
	assert.Equal(t, c.ID, s.Active())
}

func TestNotifierFunc(t *testing.T) {
	var got []command.Kind
	svc := NewService(NotifierFunc(func(replies ...command.Reply) {
		for _, r := range replies {
			got = append(got, r.Kind)
		}
	}))
	require.NoError(t, svc.Handle(context.Background(), 1, NewProject{}))
	assert.Equal(t, []command.Kind{command.NewProjectCreated}, got)
}
