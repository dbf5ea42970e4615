package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/anthem/pkg/model"
	"tableflip.dev/anthem/pkg/store"
)

type testConfig struct{ base string }

func (c testConfig) BasePath() string   { return c.base }
func (c testConfig) EnginePath() string { return "" }
func (c testConfig) LogLevel() string   { return "warn" }

func library(t *testing.T) store.Persistence {
	t.Helper()
	p, err := store.Load(testConfig{base: t.TempDir()})
	require.NoError(t, err)
	return p
}

func TestProjectsTable(t *testing.T) {
	p := library(t)
	project := model.New()
	project.Song.InsertPattern(model.NewPattern("Intro"), 0)
	require.NoError(t, p.Save(project))

	var out bytes.Buffer
	require.NoError(t, (&Projects{Persistence: p, Out: &out}).Do(context.Background()))
	assert.Contains(t, out.String(), "Patterns")
	assert.Contains(t, out.String(), "projects")
}

func TestProjectsJSON(t *testing.T) {
	p := library(t)
	require.NoError(t, p.Save(model.New()))
	require.NoError(t, p.Save(model.New()))

	var out bytes.Buffer
	require.NoError(t, (&Projects{Persistence: p, Out: &out, JSON: true}).Do(context.Background()))

	var got struct {
		Count    int             `json:"count"`
		Projects []store.Summary `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Count)
}

func TestProjectsWatchStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := (&Projects{Persistence: library(t), Out: &bytes.Buffer{}, Watch: true}).Do(ctx)
	assert.NoError(t, err)
}

func TestRemoveDeletesFromLibrary(t *testing.T) {
	p := library(t)
	keep := model.New()
	drop := model.New()
	require.NoError(t, p.Save(keep))
	require.NoError(t, p.Save(drop))

	var out bytes.Buffer
	require.NoError(t, (&Remove{Persistence: p, IDs: []uint64{drop.ID}, Out: &out}).Do(context.Background()))
	assert.Contains(t, out.String(), "removed project")

	list := p.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
}

func TestRemoveMissingProject(t *testing.T) {
	p := library(t)
	var out bytes.Buffer
	err := (&Remove{Persistence: p, IDs: []uint64{424242}, Out: &out, JSON: true}).Do(context.Background())
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, out.String())
}
