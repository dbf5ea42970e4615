package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tableflip.dev/anthem/pkg/model"
)

func sampleProject() *model.Project {
	p := model.New()
	pattern := model.NewPattern("Intro")
	pattern.AddNote(7, model.NewNote(60, 100, 96, 0))
	pattern.AddNote(7, model.NewNote(64, 100, 96, 96))
	p.Song.InsertPattern(pattern, 0)
	return p
}

func TestPersistenceSaveLoadRoundTrip(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	project := sampleProject()
	project.Saved = true
	if err := p.Save(project); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := p.Load(project.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Saved {
		t.Fatal("saved flag must not be persisted")
	}
	if !reflect.DeepEqual(got.Song, project.Song) {
		t.Fatalf("song mismatch:\n got %+v\nwant %+v", got.Song, project.Song)
	}
}

func TestPersistenceLoadMissing(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	if _, err := p.Load(12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := p.Delete(12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}

func TestPersistenceFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(testConfig{path: filepath.Join(dir, "lib")})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	project := sampleProject()
	path := filepath.Join(dir, "songs", "demo.anthem")
	if err := p.SaveFile(project, path); err != nil {
		t.Fatalf("save file: %v", err)
	}
	got, err := p.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if got.ID != project.ID || !reflect.DeepEqual(got.Song, project.Song) {
		t.Fatalf("project mismatch: got %+v want %+v", got, project)
	}
}

func TestPersistenceLoadFileCorrupt(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(testConfig{path: dir})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	path := filepath.Join(dir, "broken.anthem")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := p.LoadFile(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}

	dangling := `{"id": 9, "song": {"patterns": {}, "pattern_order": [3]}}`
	if err := os.WriteFile(path, []byte(dangling), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := p.LoadFile(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for dangling pattern order, got %v", err)
	}

	nullBucket := `{"id": 9, "song": {"patterns": {"4": {"id": 4, "name": "A", "generator_notes": {"1": null}}}, "pattern_order": [4]}}`
	if err := os.WriteFile(path, []byte(nullBucket), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := p.LoadFile(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for null generator notes, got %v", err)
	}
}

func TestPersistenceLoadFileDropsEmptyGenerators(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(testConfig{path: dir})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	data := `{"id": 9, "song": {"patterns": {"4": {"id": 4, "name": "A", "generator_notes": {"1": {"notes": []}, "2": {"notes": null}}}}, "pattern_order": [4]}}`
	path := filepath.Join(dir, "empty.anthem")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	project, err := p.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if got := len(project.Song.Patterns[4].GeneratorNotes); got != 0 {
		t.Fatalf("expected empty generators to be dropped, got %d", got)
	}
}

func TestPersistenceListAndDelete(t *testing.T) {
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	first := sampleProject()
	second := model.New()
	for _, project := range []*model.Project{first, second} {
		if err := p.Save(project); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	list := p.List(context.Background())
	if len(list) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(list))
	}
	if list[0].ID != first.ID || list[0].Patterns != 1 || list[0].Notes != 2 {
		t.Fatalf("unexpected summary %+v", list[0])
	}
	if list[0].Modified.IsZero() {
		t.Fatal("expected modification time")
	}

	if err := p.Delete(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list = p.List(context.Background())
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}
