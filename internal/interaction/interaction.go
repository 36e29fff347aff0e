// Package interaction defines the contract shared by the move, resize and
// rotate managers and the lock that keeps their drags mutually exclusive.
package interaction

import "github.com/planform/planform/backend-go/internal/shape"

// Manager is implemented by every pointer-driven interaction.
type Manager interface {
	// Create attaches the interaction to s, e.g. shows its handles.
	Create(s *shape.Shape)
	// Update refreshes handles after s changed elsewhere.
	Update(s *shape.Shape)
	// Hide detaches the interaction from its shape.
	Hide()
	// ActionActive reports whether a drag owned by this manager is running.
	ActionActive() bool
}

// Action names an interaction kind.
type Action string

const (
	ActionMove   Action = "move"
	ActionResize Action = "resize"
	ActionRotate Action = "rotate"
)

// Lock lets at most one interaction run at a time. The zero value is an
// unlocked Lock. It is confined to the editor goroutine.
type Lock struct {
	active  Action
	shapeID string
}

// TryBegin takes the lock for a on shapeID. It fails when any action,
// including a itself, is already running.
func (l *Lock) TryBegin(a Action, shapeID string) bool {
	if l.active != "" {
		return false
	}
	l.active, l.shapeID = a, shapeID
	return true
}

// End releases the lock if a holds it.
func (l *Lock) End(a Action) {
	if l.active == a {
		l.active, l.shapeID = "", ""
	}
}

// Holds reports whether a is the running action.
func (l *Lock) Holds(a Action) bool {
	return l.active != "" && l.active == a
}

// Active returns the running action and its shape.
func (l *Lock) Active() (Action, string, bool) {
	return l.active, l.shapeID, l.active != ""
}

// Group fans Create/Update/Hide out to several managers.
type Group []Manager

func (g Group) Create(s *shape.Shape) {
	for _, m := range g {
		m.Create(s)
	}
}

// Update refreshes every manager except skip.
func (g Group) Update(s *shape.Shape, skip Manager) {
	for _, m := range g {
		if m != skip {
			m.Update(s)
		}
	}
}

func (g Group) Hide() {
	for _, m := range g {
		m.Hide()
	}
}

// ActionActive reports whether any manager is mid-drag.
func (g Group) ActionActive() bool {
	for _, m := range g {
		if m.ActionActive() {
			return true
		}
	}
	return false
}
