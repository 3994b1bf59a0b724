// Package registry provides a global registry for game mode factories.
// Modes register themselves in init() functions, allowing the platform
// to discover and load modes onto a host without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/ctf-arena/internal/config"
	"github.com/vovakirdan/ctf-arena/internal/event"
	"github.com/vovakirdan/ctf-arena/internal/lang"
	"github.com/vovakirdan/ctf-arena/internal/world"
)

// Mode is a game mode layered on a host's match flow.
// The host keeps running physics and rounds; the mode reacts to touches,
// commands and events.
type Mode interface {
	// ID returns a unique identifier (e.g. "ctf"), also used as matchmaking tag.
	ID() string

	// Load attaches the mode to its host and initializes the current round.
	Load() error

	// Unload detaches the mode and removes everything it placed in the world.
	Unload()

	world.TouchHook
	world.CommandHook
}

// Recorder observes the bus for the lifetime of a loaded mode.
type Recorder interface {
	// Attach subscribes to the bus and returns a function that detaches.
	Attach(bus *event.Bus) func()
}

// Deps is what a factory receives to build a mode for one match.
type Deps struct {
	Host      world.Host
	Bus       *event.Bus
	Config    config.Config
	Logger    *log.Logger
	Printer   *lang.Printer
	Recorders []Recorder
}

// ModeInfo contains metadata about a registered mode.
type ModeInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a mode.
type Factory func(deps Deps) Mode

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a mode factory to the registry.
// Typically called from a mode's init() function.
// Panics if a mode with the same ID is already registered.
func Register(info ModeInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: mode %q already registered", info.ID))
	}

	factories[info.ID] = f
	titles[info.ID] = info.Title
}

// List returns information about all registered modes, sorted by ID.
func List() []ModeInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]ModeInfo, 0, len(factories))
	for id := range factories {
		result = append(result, ModeInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a mode by its ID.
// Returns an error if the mode ID is not registered.
func Create(id string, deps Deps) (Mode, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown mode %q", id)
	}

	return f(deps), nil
}

// Exists checks if a mode with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
