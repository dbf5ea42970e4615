// Package engine starts the external playback engine for a project.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"sync"
)

// ErrNoBinary is returned when a Process has no binary configured.
var ErrNoBinary = errors.New("engine: no binary configured")

// Launcher starts a playback engine for a project. Start returns once the
// engine has been spawned; callers must not expect any response from it.
type Launcher interface {
	Start(ctx context.Context, projectID uint64) error
}

// Noop is used when no engine is configured.
type Noop struct{}

func (Noop) Start(context.Context, uint64) error {
	return nil
}

// Stopper is implemented by launchers that own running engines.
type Stopper interface {
	Stop() error
}

// Stop terminates the engines started by l, if it owns any.
func Stop(l Launcher) error {
	if s, ok := l.(Stopper); ok {
		return s.Stop()
	}
	return nil
}

// Process spawns Binary with the project id as its only argument.
type Process struct {
	Binary string
	Logger *slog.Logger

	mu      sync.Mutex
	running map[int]*exec.Cmd
	exited  map[int]chan struct{}
}

// Start spawns the engine in the background. The process outlives ctx; use
// Stop to terminate it.
func (p *Process) Start(_ context.Context, projectID uint64) error {
	if p.Binary == "" {
		return ErrNoBinary
	}
	cmd := exec.Command(p.Binary, strconv.FormatUint(projectID, 10))
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("engine: start %s: %w", p.Binary, err)
	}
	pid := cmd.Process.Pid
	done := make(chan struct{})

	p.mu.Lock()
	if p.running == nil {
		p.running = make(map[int]*exec.Cmd)
		p.exited = make(map[int]chan struct{})
	}
	p.running[pid] = cmd
	p.exited[pid] = done
	p.mu.Unlock()

	if p.Logger != nil {
		p.Logger.Info("engine started", "binary", p.Binary, "pid", pid, "project", projectID)
	}
	go func() {
		defer close(done)
		err := cmd.Wait()
		p.mu.Lock()
		delete(p.running, pid)
		delete(p.exited, pid)
		p.mu.Unlock()
		if p.Logger != nil {
			p.Logger.Info("engine exited", "binary", p.Binary, "pid", pid, "error", err)
		}
	}()
	return nil
}

// Running reports how many spawned engines have not exited.
func (p *Process) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.running)
}

// Stop kills every running engine and waits for them to exit.
func (p *Process) Stop() error {
	p.mu.Lock()
	cmds := make([]*exec.Cmd, 0, len(p.running))
	waits := make([]chan struct{}, 0, len(p.exited))
	for pid, cmd := range p.running {
		cmds = append(cmds, cmd)
		waits = append(waits, p.exited[pid])
	}
	p.mu.Unlock()

	var errs []error
	for _, cmd := range cmds {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			errs = append(errs, fmt.Errorf("engine: stop pid %d: %w", cmd.Process.Pid, err))
		}
	}
	for _, done := range waits {
		<-done
	}
	return errors.Join(errs...)
}
