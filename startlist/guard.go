package startlist

import (
	"errors"
	"sync"
)

var ErrImportInFlight = errors.New("an import for this meet is already in progress")

// ImportGuard enforces single-flight imports per meet. Re-import is
// purge-then-insert, so two concurrent imports for the same meet would
// race; the second one is rejected outright instead of queued. Imports
// for different meets proceed independently.
type ImportGuard struct {
	mu       sync.Mutex
	inFlight map[int]struct{}
}

func NewImportGuard() *ImportGuard {
	return &ImportGuard{inFlight: make(map[int]struct{})}
}

// Acquire claims the meet for one import run. It returns
// ErrImportInFlight when another run already holds the meet.
func (g *ImportGuard) Acquire(meetID int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[meetID]; busy {
		return ErrImportInFlight
	}
	g.inFlight[meetID] = struct{}{}
	return nil
}

// Release frees the meet after a run finishes, successful or not.
func (g *ImportGuard) Release(meetID int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, meetID)
}
