// Package domains builds the bundled benchmark instances
// programmatically through the formalism builder, playing the role the
// textual front-end plays for parsed input. Instances are small enough
// that their optimal plan lengths are known, which the end-to-end tests
// rely on.
package domains

import (
	"fmt"
	"sort"

	"symplan/internal/formalism"
)

// Builder constructs one benchmark instance with its own factories.
type Builder func() (*formalism.Problem, error)

var registry = map[string]Builder{
	"gripper":     Gripper,
	"blocks":      Blocks,
	"miconic":     Miconic,
	"miconic-adl": MiconicADL,
	"ferry":       Ferry,
	"visitall":    Visitall,
}

// Names lists the bundled instances in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named instance.
func Build(name string) (*formalism.Problem, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown benchmark instance %q", name)
	}
	return b()
}
