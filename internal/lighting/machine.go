// Package lighting keeps exactly one shader program installed for the
// current lighting mode and swaps it when the mode changes.
package lighting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/toxichemicals/GO/holy-glyph/internal/logx"
	"github.com/toxichemicals/GO/holy-glyph/internal/scene"
	"github.com/toxichemicals/GO/holy-glyph/internal/shader"
)

var ErrNotStarted = errors.New("lighting machine not started")

// ProgramBuilder creates and frees shader programs. *shader.Builder
// satisfies it.
type ProgramBuilder interface {
	Build(mode scene.LightingMode) (*shader.Program, error)
	Release(p *shader.Program)
}

// Machine owns the installed program. A failed switch leaves the last
// good program and its mode in place.
type Machine struct {
	builder  ProgramBuilder
	log      *slog.Logger
	current  *shader.Program
	rebuilds int
}

func NewMachine(b ProgramBuilder, log *slog.Logger) *Machine {
	return &Machine{builder: b, log: logx.OrNop(log)}
}

// Start builds the initial program. Calling it again behaves like Switch.
func (m *Machine) Start(mode scene.LightingMode) error {
	if err := m.Switch(mode); err != nil {
		return fmt.Errorf("start %s lighting: %w", mode, err)
	}
	return nil
}

// Switch builds a program for mode and installs it, then releases the
// program it replaces. The program is rebuilt even when mode equals the
// current mode.
func (m *Machine) Switch(mode scene.LightingMode) error {
	next, err := m.builder.Build(mode)
	if err != nil {
		if m.current != nil {
			m.log.Warn("lighting switch failed, keeping previous program",
				"requested", mode, "kept", m.current.Mode(), "err", err)
		}
		return err
	}
	prev := m.current
	m.current = next
	m.rebuilds++
	m.builder.Release(prev)
	m.log.Info("lighting mode installed", "mode", mode, "rebuilds", m.rebuilds)
	return nil
}

// Current returns the installed program, nil before a successful Start.
func (m *Machine) Current() *shader.Program { return m.current }

// Mode returns the mode of the installed program.
func (m *Machine) Mode() (scene.LightingMode, error) {
	if m.current == nil {
		return 0, ErrNotStarted
	}
	return m.current.Mode(), nil
}

// Rebuilds counts successful builds since the machine was created.
func (m *Machine) Rebuilds() int { return m.rebuilds }

// Close releases the installed program.
func (m *Machine) Close() {
	m.builder.Release(m.current)
	m.current = nil
}
