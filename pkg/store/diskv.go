// Package store loads configuration and persists projects. Projects live in
// a diskv-backed library keyed by project id, or in explicit files.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/anthem/pkg/model"
)

var (
	// ErrNotFound is returned when the library has no project with the id.
	ErrNotFound = errors.New("store: project not found")
	// ErrCorrupt is returned when stored bytes do not decode to a project.
	ErrCorrupt = errors.New("store: project data is corrupt")
)

// Persistence defines the persistence contract for projects. Saving never
// changes the project beyond what is written.
type Persistence interface {
	Save(p *model.Project) error
	SaveFile(p *model.Project, path string) error
	Load(id uint64) (*model.Project, error)
	LoadFile(path string) (*model.Project, error)
	List(ctx context.Context) []Summary
	Delete(id uint64) error
	Watch(ctx context.Context) (<-chan Event, error)
}

// Summary describes a project stored in the library.
type Summary struct {
	ID       uint64    `json:"id"`
	Patterns int       `json:"patterns"`
	Notes    int       `json:"notes"`
	Modified time.Time `json:"modified"`
}

// Option configures a Persistence created by Load.
type Option func(*persistence)

// WithLogger sets the logger used for watcher and library read failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *persistence) {
		p.logger = l
	}
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, opts ...Option) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	p := &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	logger   *slog.Logger
}

func (p *persistence) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return p.logger
}

func (p *persistence) Save(project *model.Project) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(project.ID), data)
}

func (p *persistence) SaveFile(project *model.Project, path string) error {
	data, err := json.Marshal(project)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: ensure directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (p *persistence) Load(id uint64) (*model.Project, error) {
	key := toKey(id)
	if !p.d.Has(key) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	data, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	return decode(data, key)
}

func (p *persistence) LoadFile(path string) (*model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data, path)
}

func (p *persistence) Delete(id uint64) error {
	key := toKey(id)
	if !p.d.Has(key) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return p.d.Erase(key)
}

func (p *persistence) List(ctx context.Context) []Summary {
	all := make([]Summary, 0)
	for key := range p.d.Keys(ctx.Done()) {
		id, ok := fromKey(key)
		if !ok {
			continue
		}
		data, err := p.d.Read(key)
		if err != nil {
			p.log().Warn("store: read project", "key", key, "error", err)
			continue
		}
		project, err := decode(data, key)
		if err != nil {
			p.log().Warn("store: skip project", "key", key, "error", err)
			continue
		}
		s := Summary{ID: id, Patterns: len(project.Song.PatternOrder)}
		for _, pattern := range project.Song.Patterns {
			s.Notes += pattern.NoteCount()
		}
		pk := keyToPathTransform(key)
		if info, err := os.Stat(filepath.Join(append([]string{p.basePath}, append(pk.Path, pk.FileName)...)...)); err == nil {
			s.Modified = info.ModTime()
		}
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].ID < all[j].ID
	})
	return all
}

func decode(data []byte, source string) (*model.Project, error) {
	project := &model.Project{}
	if err := json.Unmarshal(data, project); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, source, err)
	}
	if project.Song.Patterns == nil {
		project.Song.Patterns = make(map[uint64]*model.Pattern)
	}
	if project.Song.PatternOrder == nil {
		project.Song.PatternOrder = []uint64{}
	}
	for id, pattern := range project.Song.Patterns {
		if pattern == nil || pattern.ID != id {
			return nil, fmt.Errorf("%w: %s: pattern %d does not match its key", ErrCorrupt, source, id)
		}
		if pattern.GeneratorNotes == nil {
			pattern.GeneratorNotes = make(map[uint64]*model.GeneratorNotes)
		}
		for generator, gn := range pattern.GeneratorNotes {
			if gn == nil {
				return nil, fmt.Errorf("%w: %s: pattern %d generator %d is null", ErrCorrupt, source, id, generator)
			}
			// Empty buckets never exist in a live tree.
			if len(gn.Notes) == 0 {
				delete(pattern.GeneratorNotes, generator)
			}
		}
	}
	for _, id := range project.Song.PatternOrder {
		if _, ok := project.Song.Patterns[id]; !ok {
			return nil, fmt.Errorf("%w: %s: pattern order references %d", ErrCorrupt, source, id)
		}
	}
	return project, nil
}

const (
	projectsDir   = "projects"
	projectSuffix = ".json"
)

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1] + projectSuffix,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.TrimSuffix(pathKey.FileName, projectSuffix)
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), name)
}

// toKey makes `projects-id`
func toKey(id uint64) string {
	return fmt.Sprintf("%s-%d", projectsDir, id)
}

func fromKey(key string) (uint64, bool) {
	rest, ok := strings.CutPrefix(key, projectsDir+"-")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
