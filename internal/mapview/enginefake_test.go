package mapview

import (
	"sync"
	"time"
)

type fakeFlight struct {
	center   LatLng
	zoom     int
	duration time.Duration
}

type fakeBoundsFlight struct {
	bounds   Bounds
	pad      float64
	maxZoom  int
	duration time.Duration
}

type fakeMarker struct {
	engine *fakeEngine
	spec   MarkerSpec
}

func (m *fakeMarker) Remove() {
	m.engine.mu.Lock()
	defer m.engine.mu.Unlock()
	delete(m.engine.live, m)
	m.engine.removes++
}

type fakeEngine struct {
	mu sync.Mutex

	views         []fakeFlight
	flights       []fakeFlight
	boundsFlights []fakeBoundsFlight
	invalidates   int
	closes        int
	adds          int
	removes       int

	live    map[*fakeMarker]func()
	moveEnd func(LatLng, int)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{live: map[*fakeMarker]func(){}}
}

func (e *fakeEngine) SetView(center LatLng, zoom int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.views = append(e.views, fakeFlight{center: center, zoom: zoom})
}

func (e *fakeEngine) FlyTo(center LatLng, zoom int, duration time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flights = append(e.flights, fakeFlight{center: center, zoom: zoom, duration: duration})
}

func (e *fakeEngine) FlyToBounds(b Bounds, pad float64, maxZoom int, duration time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.boundsFlights = append(e.boundsFlights, fakeBoundsFlight{bounds: b, pad: pad, maxZoom: maxZoom, duration: duration})
}

func (e *fakeEngine) AddMarker(spec MarkerSpec, onClick func()) Marker {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := &fakeMarker{engine: e, spec: spec}
	e.live[m] = onClick
	e.adds++
	return m
}

func (e *fakeEngine) InvalidateSize() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invalidates++
}

func (e *fakeEngine) OnMoveEnd(fn func(center LatLng, zoom int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.moveEnd = fn
}

func (e *fakeEngine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closes++
}

func (e *fakeEngine) fireMoveEnd(center LatLng, zoom int) {
	e.mu.Lock()
	fn := e.moveEnd
	e.mu.Unlock()
	if fn != nil {
		fn(center, zoom)
	}
}

func (e *fakeEngine) liveSpecs() []MarkerSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	specs := make([]MarkerSpec, 0, len(e.live))
	for m := range e.live {
		specs = append(specs, m.spec)
	}
	return specs
}

func (e *fakeEngine) liveCount(kind MarkerKind) int {
	n := 0
	for _, s := range e.liveSpecs() {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func (e *fakeEngine) activeCount(kind MarkerKind) int {
	n := 0
	for _, s := range e.liveSpecs() {
		if s.Kind == kind && s.Active {
			n++
		}
	}
	return n
}

// clickFirst invokes the click handler of the first live marker matching the
// predicate and reports whether one was found.
func (e *fakeEngine) clickFirst(match func(MarkerSpec) bool) bool {
	e.mu.Lock()
	var fn func()
	for m, click := range e.live {
		if match(m.spec) {
			fn = click
			break
		}
	}
	e.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

func coord(lat, lng float64) *LatLng {
	return &LatLng{Lat: lat, Lng: lng}
}

func tripAt(id string, lat, lng float64, date string) Trip {
	return Trip{
		ID:    id,
		Title: "Trip " + id,
		Date:  date,
		At:    LatLng{Lat: lat, Lng: lng},
	}
}
