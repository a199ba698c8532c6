package strategy

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-pursuit/internal/board"
)

// Info describes a registered variant.
type Info struct {
	Name    string
	Summary string
}

// Factory builds a strategy from its tuning.
type Factory func(o Options) Strategy

var (
	factories = make(map[string]Factory)
	summaries = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a variant. Typically called from an init() function.
// Panics if the name is already taken.
func Register(name, summary string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("strategy: variant %q already registered", name))
	}
	factories[name] = f
	summaries[name] = summary
}

// Variants lists the registered variants sorted by name.
func Variants() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name := range factories {
		result = append(result, Info{Name: name, Summary: summaries[name]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// New builds the named variant. Unknown names are a configuration error.
func New(name string, o Options) (Strategy, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()

	if !ok {
		return nil, board.ConfigurationError{
			Code:    board.CodeUnknownVariant,
			Message: fmt.Sprintf("unknown pursuer variant %q", name),
		}
	}
	return f(o.withDefaults()), nil
}

// Exists reports whether a variant is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}
