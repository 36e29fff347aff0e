// Package command holds the reversible edits recorded in the undo history.
package command

import (
	"errors"
	"fmt"
)

// Command is a reversible edit. Execute and Undo depend only on values the
// command captured, never on the state at the time the command was built.
type Command interface {
	Execute() error
	Undo() error
}

// ErrRolledBack wraps a sub-command failure after the composite restored
// the state it started from.
var ErrRolledBack = errors.New("composite rolled back")

// Composite runs its commands as a unit: forward on Execute, in reverse on
// Undo. If any step fails, the steps already taken are reverted before the
// error is returned.
type Composite struct {
	commands []Command
}

// NewComposite creates a composite of cmds.
func NewComposite(cmds ...Command) *Composite {
	c := &Composite{}
	for _, cmd := range cmds {
		c.Add(cmd)
	}
	return c
}

// Add appends cmd. Nil commands are ignored.
func (c *Composite) Add(cmd Command) {
	if cmd != nil {
		c.commands = append(c.commands, cmd)
	}
}

// Len is the number of sub-commands.
func (c *Composite) Len() int { return len(c.commands) }

// Commands returns the sub-commands in execution order.
func (c *Composite) Commands() []Command {
	return append([]Command(nil), c.commands...)
}

func (c *Composite) Execute() error {
	for i, cmd := range c.commands {
		if err := cmd.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				if uerr := c.commands[j].Undo(); uerr != nil {
					return fmt.Errorf("execute step %d: %w (rollback step %d: %v)", i, err, j, uerr)
				}
			}
			return fmt.Errorf("%w: execute step %d: %w", ErrRolledBack, i, err)
		}
	}
	return nil
}

func (c *Composite) Undo() error {
	for i := len(c.commands) - 1; i >= 0; i-- {
		if err := c.commands[i].Undo(); err != nil {
			for j := i + 1; j < len(c.commands); j++ {
				if rerr := c.commands[j].Execute(); rerr != nil {
					return fmt.Errorf("undo step %d: %w (rollback step %d: %v)", i, err, j, rerr)
				}
			}
			return fmt.Errorf("%w: undo step %d: %w", ErrRolledBack, i, err)
		}
	}
	return nil
}
