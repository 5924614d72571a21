package cart

import "sync"

// lineGuard allows at most one in-flight mutation per identity key.
// Mutations on different lines proceed independently.
type lineGuard struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newLineGuard() *lineGuard {
	return &lineGuard{busy: make(map[string]bool)}
}

// acquire claims the key, reporting false if it is already held.
func (g *lineGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[key] {
		return false
	}
	g.busy[key] = true
	return true
}

func (g *lineGuard) release(key string) {
	g.mu.Lock()
	delete(g.busy, key)
	g.mu.Unlock()
}
