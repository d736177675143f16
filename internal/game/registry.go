package game

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the instant games, keyed by their text command. Lookups
// happen on every routed message, so reads take an RLock.
type Registry struct {
	games map[string]Game
	mu    sync.RWMutex
}

// NewRegistry creates an empty game registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[string]Game),
	}
}

// Register adds a game under its command. Registering a second game with the
// same command replaces the first.
func (r *Registry) Register(g Game) error {
	if g == nil {
		return fmt.Errorf("cannot register nil game")
	}
	if g.Command() == "" {
		return fmt.Errorf("game command cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[g.Command()] = g
	return nil
}

// Get looks up a game by its command.
func (r *Registry) Get(command string) (Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[command]
	return g, ok
}

// List returns the registered games ordered by command, so menus and logs
// render the same way across restarts.
func (r *Registry) List() []Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	games := make([]Game, 0, len(r.games))
	for _, g := range r.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].Command() < games[j].Command()
	})
	return games
}

// Commands returns the registered commands in sorted order.
func (r *Registry) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]string, 0, len(r.games))
	for cmd := range r.games {
		commands = append(commands, cmd)
	}
	sort.Strings(commands)
	return commands
}

// Count returns the number of registered games.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
