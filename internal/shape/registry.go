package shape

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind       = errors.New("shape kind not registered")
	ErrDuplicateKind     = errors.New("shape kind already registered")
	ErrInvalidDefinition = errors.New("invalid kind definition")
	ErrInvalidParams     = errors.New("invalid shape parameters")
)

// Constructor validates the parameters of a new shape and returns them
// normalised, with defaults filled in.
type Constructor func(t Transform, params Params) (Params, error)

// Definition is everything the editor knows about a kind.
type Definition struct {
	Kind Kind
	// Command is the instruction tag emitted for this kind. Empty means
	// CommandGeneric.
	Command string
	// FieldMap renames parameters on the way out: local name -> wire name.
	FieldMap map[string]string
	// Priority picks the kind a shared Command decodes to; highest wins.
	Priority  int
	Container bool
	New       Constructor
}

// Registry maps kinds to their definitions.
type Registry struct {
	defs  map[Kind]Definition
	order []Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[Kind]Definition)}
}

// Register adds a kind. Kinds cannot be re-registered.
func (r *Registry) Register(def Definition) error {
	if def.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrInvalidDefinition)
	}
	if def.Command == "" {
		def.Command = CommandGeneric
	}
	if _, ok := r.defs[def.Kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, def.Kind)
	}
	r.defs[def.Kind] = def
	r.order = append(r.order, def.Kind)
	return nil
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind Kind) (Definition, error) {
	def, ok := r.defs[kind]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return def, nil
}

// ForCommand returns the highest-priority definition using command. On a
// tie the earliest registration wins.
func (r *Registry) ForCommand(command string) (Definition, bool) {
	var (
		best  Definition
		found bool
	)
	for _, k := range r.order {
		def := r.defs[k]
		if def.Command != command {
			continue
		}
		if !found || def.Priority > best.Priority {
			best, found = def, true
		}
	}
	return best, found
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.order...)
}
