package mapview

import (
	"strconv"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
)

// wireEngine implements Engine by emitting imperative JSON commands to a map
// client over a websocket. It is the only place the declarative core touches
// the transport.
type wireEngine struct {
	mu      sync.Mutex
	send    func(payload []byte) error
	nextID  int
	clicks  map[string]func()
	moveEnd func(center LatLng, zoom int)
}

func newWireEngine(send func([]byte) error) *wireEngine {
	return &wireEngine{send: send, clicks: map[string]func(){}}
}

type wireCommand struct {
	Type       string      `json:"type"`
	MarkerID   string      `json:"marker_id,omitempty"`
	Marker     *MarkerSpec `json:"marker,omitempty"`
	Center     *LatLng     `json:"center,omitempty"`
	Zoom       int         `json:"zoom,omitempty"`
	Bounds     *Bounds     `json:"bounds,omitempty"`
	Pad        float64     `json:"pad,omitempty"`
	MaxZoom    int         `json:"max_zoom,omitempty"`
	DurationMS int64       `json:"duration_ms,omitempty"`
}

func (e *wireEngine) emit(cmd wireCommand) {
	payload, err := gojson.Marshal(cmd)
	if err != nil {
		return
	}
	_ = e.send(payload)
}

func (e *wireEngine) SetView(center LatLng, zoom int) {
	e.emit(wireCommand{Type: "set_view", Center: &center, Zoom: zoom})
}

func (e *wireEngine) FlyTo(center LatLng, zoom int, duration time.Duration) {
	e.emit(wireCommand{Type: "fly_to", Center: &center, Zoom: zoom, DurationMS: duration.Milliseconds()})
}

func (e *wireEngine) FlyToBounds(b Bounds, pad float64, maxZoom int, duration time.Duration) {
	e.emit(wireCommand{Type: "fly_to_bounds", Bounds: &b, Pad: pad, MaxZoom: maxZoom, DurationMS: duration.Milliseconds()})
}

func (e *wireEngine) AddMarker(spec MarkerSpec, onClick func()) Marker {
	e.mu.Lock()
	e.nextID++
	id := "m" + strconv.Itoa(e.nextID)
	e.clicks[id] = onClick
	e.mu.Unlock()

	s := spec
	e.emit(wireCommand{Type: "add_marker", MarkerID: id, Marker: &s})
	return &wireMarker{engine: e, id: id}
}

func (e *wireEngine) InvalidateSize() {
	e.emit(wireCommand{Type: "invalidate_size"})
}

func (e *wireEngine) OnMoveEnd(fn func(center LatLng, zoom int)) {
	e.mu.Lock()
	e.moveEnd = fn
	e.mu.Unlock()
}

func (e *wireEngine) Close() {
	e.mu.Lock()
	e.clicks = map[string]func(){}
	e.mu.Unlock()
}

// Click dispatches a client-reported marker click to the handler registered
// when the marker was created.
func (e *wireEngine) Click(markerID string) {
	e.mu.Lock()
	fn := e.clicks[markerID]
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// MoveEnd forwards a client-reported move-end to the host's listener.
func (e *wireEngine) MoveEnd(center LatLng, zoom int) {
	e.mu.Lock()
	fn := e.moveEnd
	e.mu.Unlock()
	if fn != nil {
		fn(center, zoom)
	}
}

type wireMarker struct {
	engine *wireEngine
	id     string
}

func (m *wireMarker) Remove() {
	m.engine.mu.Lock()
	delete(m.engine.clicks, m.id)
	m.engine.mu.Unlock()
	m.engine.emit(wireCommand{Type: "remove_marker", MarkerID: m.id})
}
