package chat

import "sync"

// Presence is the process-wide mapping from user id to the active connection,
// the single source of truth for whether a user is currently reachable.
// Constructed once per hub and injected, never a package-level singleton, so
// tests get fresh instances. At most one entry exists per user; a new
// registration overwrites the old mapping without closing the old connection.
type Presence struct {
	mu    sync.RWMutex
	conns map[int64]*Client
}

// NewPresence creates an empty presence table.
func NewPresence() *Presence {
	return &Presence{conns: make(map[int64]*Client)}
}

// Set binds the user to the given connection. Last registration wins.
func (p *Presence) Set(userID int64, c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conns[userID] = c
}

// Get returns the user's active connection, or nil when the user is offline.
func (p *Presence) Get(userID int64) *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.conns[userID]
}

// Remove deletes the user's entry only while it still points at owner.
// A disconnect of a stale connection must not evict the registration that
// replaced it. Returns whether an entry was removed; idempotent otherwise.
func (p *Presence) Remove(userID int64, owner *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.conns[userID]; ok && current == owner {
		delete(p.conns, userID)
		return true
	}

	return false
}

// snapshot returns the currently present connections, for hub shutdown.
func (p *Presence) snapshot() []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	clients := make([]*Client, 0, len(p.conns))
	for _, c := range p.conns {
		clients = append(clients, c)
	}

	return clients
}
