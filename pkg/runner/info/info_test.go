package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/anthem/pkg/model"
	"tableflip.dev/anthem/pkg/store"
)

type testConfig struct{ base string }

func (c testConfig) BasePath() string   { return c.base }
func (c testConfig) EnginePath() string { return "" }
func (c testConfig) LogLevel() string   { return "debug" }

func TestInfoPrintsConfigAndProjects(t *testing.T) {
	cfg := testConfig{base: t.TempDir()}
	p, err := store.Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	project := model.New()
	if err := p.Save(project); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out bytes.Buffer
	n := &Info{Config: cfg, Persistence: p, Out: &out}
	if err := n.Do(context.Background()); err != nil {
		t.Fatalf("info: %v", err)
	}

	for _, want := range []string{cfg.base, "(none)", "debug", "Projects: 1"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out.String())
		}
	}
}

func TestInfoRequiresPersistence(t *testing.T) {
	n := &Info{Config: testConfig{base: t.TempDir()}, Out: &bytes.Buffer{}}
	if err := n.Do(context.Background()); err == nil {
		t.Fatalf("expected error without persistence")
	}
}
