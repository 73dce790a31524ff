package session

import "sync"

// Guard serializes writers to one session. The planning functions work on
// the snapshots it hands out, so readers never see a half-applied change.
type Guard struct {
	mu  sync.Mutex
	cur Session
}

// NewGuard returns a guard holding s.
func NewGuard(s Session) *Guard {
	return &Guard{cur: s}
}

// Snapshot returns the current session. The returned value is independent
// of later transitions.
func (g *Guard) Snapshot() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur.clone()
}

// Apply runs fn on the current session and stores its result. If fn returns
// an error the session is left unchanged.
func (g *Guard) Apply(fn func(Session) (Session, error)) (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := fn(g.cur)
	if err != nil {
		return g.cur.clone(), err
	}
	g.cur = next
	return next.clone(), nil
}

// Replace swaps in s wholesale, for example after reloading it from disk.
func (g *Guard) Replace(s Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cur = s
}
