package mapview

import (
	"context"
	"sync"
)

// ViewCallbacks are the selection-change notifications flowing back out of
// the map to whoever owns the screen state.
type ViewCallbacks struct {
	OnTripClick     func(tripID string)
	OnActivityClick func(Activity)
	OnLodgingClick  func(Lodging)
}

// View ties the host, marker manager, camera and geolocation bootstrap to a
// single reconciliation pass over (trips, selection).
type View struct {
	host    *Host
	markers *MarkerManager
	camera  *Camera
	boot    *Bootstrapper
	latest  *Cell[Selection]

	mu    sync.Mutex
	gen   uint64
	trips []Trip
	sel   Selection
}

// NewView builds the map view for one session. Returns nil when the engine
// failed to initialize, mirroring the render-nothing failure semantics.
func NewView(ctx context.Context, engine Engine, store ViewportStore, sessionID string, gate *CenterGate, cb ViewCallbacks) *View {
	host := NewHost(ctx, engine, store, sessionID, gate)
	if host == nil {
		return nil
	}

	latest := &Cell[Selection]{}
	return &View{
		host:    host,
		markers: NewMarkerManager(engine, cb.OnTripClick, cb.OnActivityClick, cb.OnLodgingClick),
		camera:  NewCamera(engine),
		boot:    NewBootstrapper(engine, gate, latest),
		latest:  latest,
	}
}

// Generation returns the token a trip reload must present to ReplaceTrips.
func (v *View) Generation() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gen
}

// ReplaceTrips installs a freshly fetched trip list, but only if no
// selection change superseded the fetch while it was in flight. Stale
// completions are dropped; it reports whether the list was applied.
func (v *View) ReplaceTrips(gen uint64, trips []Trip) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}
	v.trips = trips
	v.render()
	return true
}

// UpsertTrip merges one freshly fetched trip into the list under the same
// staleness rule as ReplaceTrips, refreshing any selection pointing at it.
func (v *View) UpsertTrip(gen uint64, t Trip) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		return false
	}

	found := false
	for i := range v.trips {
		if v.trips[i].ID == t.ID {
			v.trips[i] = t
			found = true
			break
		}
	}
	if !found {
		v.trips = append([]Trip{t}, v.trips...)
	}

	if v.sel.Trip != nil && v.sel.Trip.ID == t.ID {
		v.sel.Trip = &t
	}
	if v.sel.FullScreen != nil && v.sel.FullScreen.ID == t.ID {
		v.sel.FullScreen = &t
	}
	v.render()
	return true
}

// UpdateSelection mutates the selection under the view's lock and runs a
// reconciliation pass. Each call starts a new generation so slower trip
// fetches started before it cannot apply afterwards.
func (v *View) UpdateSelection(mutate func(sel *Selection, trips []Trip)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	mutate(&v.sel, v.trips)
	v.gen++
	v.render()
}

// Selection returns a snapshot of the current selection.
func (v *View) Selection() Selection {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sel
}

// Locate feeds an asynchronous geolocation result to the bootstrapper.
func (v *View) Locate(loc LatLng, ok bool) {
	v.boot.Resolve(loc, ok)
}

// Resize forwards a container resize to the host.
func (v *View) Resize() {
	v.host.Resize()
}

// Close tears the view down; further updates are no-ops for the caller to
// avoid, matching an unmounted screen that stops applying state.
func (v *View) Close() {
	v.mu.Lock()
	v.markers.Clear()
	v.mu.Unlock()
	v.host.Close()
}

// render must run with v.mu held.
func (v *View) render() {
	v.latest.Store(v.sel)
	v.markers.Reconcile(v.trips, v.sel)
	v.camera.Update(v.sel)
}
