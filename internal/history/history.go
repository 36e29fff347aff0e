// Package history keeps the bounded undo and redo stacks of an editor.
package history

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/planform/planform/backend-go/internal/command"
	"github.com/planform/planform/backend-go/internal/events"
)

// DefaultMaxSize bounds the undo stack when no size is configured.
const DefaultMaxSize = 50

var ErrNilCommand = errors.New("nil command")

// Manager records applied commands. It is confined to the editor goroutine.
type Manager struct {
	undo    []command.Command
	redo    []command.Command
	maxSize int
	bus     *events.Bus
	logger  *slog.Logger
}

// New creates a manager keeping at most maxSize undo entries. A
// non-positive maxSize selects DefaultMaxSize. bus and logger may be nil.
func New(maxSize int, bus *events.Bus, logger *slog.Logger) *Manager {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{maxSize: maxSize, bus: bus, logger: logger}
}

// Push records cmd, which must already have been applied. The redo stack
// is cleared and the oldest entry is evicted once the stack is full.
func (m *Manager) Push(cmd command.Command) error {
	if cmd == nil {
		return ErrNilCommand
	}
	m.undo = append(m.undo, cmd)
	m.redo = nil
	if len(m.undo) > m.maxSize {
		m.undo[0] = nil
		m.undo = m.undo[1:]
		commandsEvictedTotal.Inc()
	}
	commandsPushedTotal.Inc()
	m.publish(events.CommandPushed)
	return nil
}

// Undo reverts the most recent command. An empty stack is a no-op. A
// command whose Undo fails is dropped from history and its error returned.
func (m *Manager) Undo() error {
	if len(m.undo) == 0 {
		m.logger.Warn("undo requested with empty undo stack")
		stepsTotal.WithLabelValues("undo", "empty").Inc()
		return nil
	}
	cmd := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]

	if err := cmd.Undo(); err != nil {
		m.logger.Error("undo failed, command discarded", "error", err)
		stepsTotal.WithLabelValues("undo", "failed").Inc()
		m.publish(events.UndoPerformed)
		return fmt.Errorf("undo: %w", err)
	}
	m.redo = append(m.redo, cmd)
	stepsTotal.WithLabelValues("undo", "ok").Inc()
	m.publish(events.UndoPerformed)
	return nil
}

// Redo re-applies the most recently undone command.
func (m *Manager) Redo() error {
	if len(m.redo) == 0 {
		m.logger.Warn("redo requested with empty redo stack")
		stepsTotal.WithLabelValues("redo", "empty").Inc()
		return nil
	}
	cmd := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]

	if err := cmd.Execute(); err != nil {
		m.logger.Error("redo failed, command discarded", "error", err)
		stepsTotal.WithLabelValues("redo", "failed").Inc()
		m.publish(events.RedoPerformed)
		return fmt.Errorf("redo: %w", err)
	}
	m.undo = append(m.undo, cmd)
	stepsTotal.WithLabelValues("redo", "ok").Inc()
	m.publish(events.RedoPerformed)
	return nil
}

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Sizes reports the stack depths.
func (m *Manager) Sizes() events.StackSizes {
	return events.StackSizes{UndoStackSize: len(m.undo), RedoStackSize: len(m.redo)}
}

func (m *Manager) publish(name events.Name) {
	sizes := m.Sizes()
	m.bus.Publish(events.Event{Name: name, Stacks: &sizes})
}
