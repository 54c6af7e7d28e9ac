package mapview

import (
	"context"
	"sync"
)

// Host owns exactly one engine instance for the lifetime of a map session:
// it initializes the view once, persists the viewport on every move-end and
// tears the engine down exactly once.
type Host struct {
	engine  Engine
	store   ViewportStore
	session string

	closeOnce sync.Once
}

// NewHost restores the stored viewport (pre-consuming the auto-center gate
// when one exists) or falls back to the default view. A nil engine means the
// map failed to initialize; no host is created and no partial state remains.
func NewHost(ctx context.Context, engine Engine, store ViewportStore, sessionID string, gate *CenterGate) *Host {
	if engine == nil {
		return nil
	}

	h := &Host{engine: engine, store: store, session: sessionID}

	if v, ok := store.Load(ctx, sessionID); ok {
		engine.SetView(LatLng{Lat: v.Lat, Lng: v.Lng}, v.Zoom)
		gate.Consume()
	} else {
		engine.SetView(DefaultCenter, defaultZoom)
	}

	engine.OnMoveEnd(func(center LatLng, zoom int) {
		_ = h.store.Save(context.Background(), h.session, Viewport{
			Lat:  center.Lat,
			Lng:  center.Lng,
			Zoom: zoom,
		})
	})

	return h
}

// Resize tells the engine to recompute its layout after the host container
// changed size (a side panel opened or closed).
func (h *Host) Resize() {
	h.engine.InvalidateSize()
}

// Close destroys the engine instance. Safe to call more than once.
func (h *Host) Close() {
	h.closeOnce.Do(h.engine.Close)
}
