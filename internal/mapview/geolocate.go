package mapview

import "sync"

// CenterGate is the "has auto-centered" flag: initialized unconsumed, set
// exactly once per map session (by a stored-viewport restore or by the
// geolocation bootstrap resolving either way) and never reset during the
// session. Tests inject a fresh instance instead of sharing process state.
type CenterGate struct {
	mu       sync.Mutex
	consumed bool
}

func NewCenterGate() *CenterGate {
	return &CenterGate{}
}

// Consume marks the gate used and reports whether this call was the first.
func (g *CenterGate) Consume() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.consumed {
		return false
	}
	g.consumed = true
	return true
}

func (g *CenterGate) Consumed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.consumed
}

// Reset re-arms the gate. Test use only.
func (g *CenterGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.consumed = false
}

// Cell is a latest-value holder: written synchronously on every state
// change, read only inside already-scheduled asynchronous continuations.
// It is not a synchronization primitive.
type Cell[T any] struct {
	mu sync.RWMutex
	v  T
}

func (c *Cell[T]) Store(v T) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *Cell[T]) Load() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.v
}

// Bootstrapper performs the one-time best-effort recentering on the user's
// real-world location shortly after init.
type Bootstrapper struct {
	engine Engine
	gate   *CenterGate
	latest *Cell[Selection]
}

func NewBootstrapper(engine Engine, gate *CenterGate, latest *Cell[Selection]) *Bootstrapper {
	return &Bootstrapper{engine: engine, gate: gate, latest: latest}
}

// Resolve applies an asynchronous geolocation result. The gate is consumed
// no matter the outcome; if the user has selected anything by the time the
// result arrives, the camera is never yanked away from that selection.
func (b *Bootstrapper) Resolve(loc LatLng, ok bool) {
	if !b.gate.Consume() {
		return
	}
	if !ok {
		return
	}
	if !b.latest.Load().Empty() {
		return
	}
	b.engine.FlyTo(loc, geolocateZoom, geolocateFlyDuration)
}
