// Package registry provides a global registry for scenario factories.
// Scenario sources register themselves in init() functions, allowing the
// CLI, the SSH server and the observer to start games without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

// Scenario is everything needed to start a game: an upgrade catalog and
// the balance numbers the engine runs on.
type Scenario struct {
	ID          string
	Title       string
	Description string
	Catalog     *sim.Catalog
	Balance     sim.Balance
}

// NewGame creates a fresh GameState for the scenario.
func (s Scenario) NewGame(opts ...sim.Option) (*sim.GameState, error) {
	return sim.New(s.Catalog, s.Balance, opts...)
}

// ScenarioInfo contains metadata about a registered scenario.
type ScenarioInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory builds a scenario. It is called once per game.
type Factory func() (Scenario, error)

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]ScenarioInfo)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	// Get the title by building a temporary instance
	info := ScenarioInfo{ID: id, Title: id}
	if s, err := f(); err == nil {
		info.Title = s.Title
		info.Description = s.Description
	}
	infos[id] = info
}

// List returns information about all registered scenarios, sorted by ID.
func List() []ScenarioInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ScenarioInfo, 0, len(factories))
	for id := range factories {
		result = append(result, infos[id])
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create builds a scenario by its ID.
// Returns an error if the scenario ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return Scenario{}, fmt.Errorf("registry: unknown scenario %q", id)
	}
	return f()
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
