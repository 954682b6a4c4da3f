// Package peerset maintains the set of known peer endpoints a node
// gossips to and pulls consensus candidates from. No liveness state is
// tracked; an unreachable peer simply fails its next call.
package peerset

import (
	"sort"
	"strings"
	"sync"
)

// Peer is a single network endpoint, normalized to host:port with no
// scheme and no trailing slash.
type Peer struct {
	Host string
}

// New returns a Peer for the given raw address, tolerating addresses that
// arrive with or without a URL scheme (nodes.json and /connect_node both
// accept either form).
func New(raw string) Peer {
	return Peer{Host: normalize(raw)}
}

// Match reports whether two peers refer to the same host:port.
func (p Peer) Match(other Peer) bool {
	return p.Host == other.Host
}

func normalize(raw string) string {
	host := strings.TrimSpace(raw)
	if i := strings.Index(host, "://"); i != -1 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	return host
}

// Set is the mutex-guarded registry of known peers, keyed by host so
// duplicate registration is a no-op.
type Set struct {
	mu   sync.RWMutex
	self Peer
	byID map[string]Peer
}

// NewSet constructs a peer set that will never add self to itself.
func NewSet(self Peer) *Set {
	return &Set{self: self, byID: make(map[string]Peer)}
}

// Add registers peer unless it matches self or is already known. Returns
// true if the peer was newly added.
func (s *Set) Add(peer Peer) bool {
	if peer.Match(s.self) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[peer.Host]; exists {
		return false
	}
	s.byID[peer.Host] = peer
	return true
}

// Remove drops peer from the set, used when a peer proves unreachable and
// the caller chooses to evict it until the next peer-discovery round.
func (s *Set) Remove(peer Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, peer.Host)
}

// Copy returns a stable, sorted snapshot of the current peer list.
func (s *Set) Copy() []Peer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Peer, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out
}

// Len reports how many peers are currently known.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
