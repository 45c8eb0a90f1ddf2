package engine

import "sync"

// OwnerGate serializes processing passes per owner. Concurrent passes over
// the same owner's definitions could each read the same due set and post
// duplicate transactions, so a second caller is turned away instead of
// queued.
type OwnerGate struct {
	inflight map[string]struct{}
	mu       sync.Mutex
}

// NewOwnerGate creates an empty gate.
func NewOwnerGate() *OwnerGate {
	return &OwnerGate{inflight: make(map[string]struct{})}
}

// TryAcquire claims the gate for an owner. It reports false when a pass for
// that owner is already running.
func (g *OwnerGate) TryAcquire(ownerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[ownerID]; busy {
		return false
	}
	g.inflight[ownerID] = struct{}{}
	return true
}

// Release frees the gate for an owner. Releasing an unclaimed owner is a
// no-op.
func (g *OwnerGate) Release(ownerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inflight, ownerID)
}
