package mapview

import (
	"context"
	"log"
	"net"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/joeyShea/travel-map/internal/metrics"
)

// TripSource supplies map-ready trips. Implementations must filter out trips
// without a valid coordinate.
type TripSource interface {
	MapTrips(ctx context.Context) ([]Trip, error)
	MapTrip(ctx context.Context, tripID string) (Trip, error)
}

// FeedSource delivers trip feed notifications; any message means the trip
// list should be reloaded.
type FeedSource interface {
	Subscribe() (<-chan []byte, func())
}

// SessionDeps wires one map session to the rest of the system.
type SessionDeps struct {
	Trips     TripSource
	Viewports ViewportStore
	Feed      FeedSource
	// LocateIP is the optional fallback when a client cannot provide its
	// own geolocation result.
	LocateIP func(ip string) (LatLng, bool)

	gates gateRegistry
}

// gateIdleTTL bounds how long an auto-center gate outlives its last
// connection. Matches the stored-viewport lifetime so a returning session
// either restores both or neither.
const gateIdleTTL = 12 * time.Hour

// gateRegistry hands out one auto-center gate per session id so reconnects
// within the same session never re-trigger the geolocation bootstrap. Gates
// idle past gateIdleTTL are swept out on the next lookup.
type gateRegistry struct {
	mu        sync.Mutex
	m         map[string]*gateEntry
	lastSweep time.Time
}

type gateEntry struct {
	gate     *CenterGate
	lastSeen time.Time
}

func (r *gateRegistry) get(sessionID string) *CenterGate {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if r.m == nil {
		r.m = map[string]*gateEntry{}
	}
	if now.Sub(r.lastSweep) > time.Minute {
		for id, e := range r.m {
			if now.Sub(e.lastSeen) > gateIdleTTL {
				delete(r.m, id)
			}
		}
		r.lastSweep = now
	}

	if e, ok := r.m[sessionID]; ok {
		e.lastSeen = now
		return e.gate
	}
	e := &gateEntry{gate: NewCenterGate(), lastSeen: now}
	r.m[sessionID] = e
	return e.gate
}

type clientEvent struct {
	Event      string   `json:"event"`
	TripID     *string  `json:"trip_id"`
	ActivityID *string  `json:"activity_id"`
	LodgingID  *string  `json:"lodging_id"`
	MarkerID   string   `json:"marker_id"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	Zoom       int      `json:"zoom"`
	OK         bool     `json:"ok"`
}

func RegisterRoutes(r fiber.Router, deps *SessionDeps) {
	r.Get("/ws/:sessionID", websocket.New(func(c *websocket.Conn) {
		runSession(c, deps)
	}))
}

func runSession(c *websocket.Conn, deps *SessionDeps) {
	metrics.MapSessionsTotal.Inc()
	sessionID := c.Params("sessionID")

	var writeMu sync.Mutex
	send := func(payload []byte) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return c.WriteMessage(websocket.TextMessage, payload)
	}

	engine := newWireEngine(send)
	sess := &mapSession{
		engine: engine,
		deps:   deps,
	}

	view := NewView(context.Background(), engine, deps.Viewports, sessionID, deps.gates.get(sessionID), ViewCallbacks{
		OnTripClick: sess.selectTripByID,
		OnActivityClick: func(a Activity) {
			sess.view.UpdateSelection(func(sel *Selection, _ []Trip) {
				sel.SelectActivity(&a)
			})
		},
		OnLodgingClick: func(l Lodging) {
			sess.view.UpdateSelection(func(sel *Selection, _ []Trip) {
				sel.SelectLodging(&l)
			})
		},
	})
	if view == nil {
		return
	}
	sess.view = view
	defer view.Close()

	sess.reloadTrips()

	if deps.Feed != nil {
		feed, cancel := deps.Feed.Subscribe()
		defer cancel()
		done := make(chan struct{})
		defer close(done)
		go func() {
			for {
				select {
				case _, ok := <-feed:
					if !ok {
						return
					}
					sess.reloadTrips()
				case <-done:
					return
				}
			}
		}()
	}

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}
		var ev clientEvent
		if err := gojson.Unmarshal(raw, &ev); err != nil {
			continue
		}
		sess.handle(ev, clientIP(c))
	}
}

type mapSession struct {
	engine *wireEngine
	deps   *SessionDeps
	view   *View
}

func (s *mapSession) handle(ev clientEvent, remoteIP string) {
	switch ev.Event {
	case "select_trip":
		if ev.TripID == nil {
			s.view.UpdateSelection(func(sel *Selection, _ []Trip) {
				sel.SelectTrip(nil)
			})
			return
		}
		s.selectTripByID(*ev.TripID)

	case "full_screen":
		if ev.TripID == nil {
			return
		}
		id := *ev.TripID
		s.view.UpdateSelection(func(sel *Selection, trips []Trip) {
			if t := findTrip(trips, id); t != nil {
				sel.EnterFullScreen(t)
			}
		})

	case "back":
		s.view.UpdateSelection(func(sel *Selection, _ []Trip) {
			sel.ExitFullScreen()
		})

	case "select_activity":
		s.view.UpdateSelection(func(sel *Selection, _ []Trip) {
			if ev.ActivityID == nil {
				sel.SelectActivity(nil)
				return
			}
			if focused := sel.Focused(); focused != nil {
				for i := range focused.Activities {
					if focused.Activities[i].ID == *ev.ActivityID {
						sel.SelectActivity(&focused.Activities[i])
						return
					}
				}
			}
		})

	case "select_lodging":
		s.view.UpdateSelection(func(sel *Selection, _ []Trip) {
			if ev.LodgingID == nil {
				sel.SelectLodging(nil)
				return
			}
			if focused := sel.Focused(); focused != nil {
				for i := range focused.Lodgings {
					if focused.Lodgings[i].ID == *ev.LodgingID {
						sel.SelectLodging(&focused.Lodgings[i])
						return
					}
				}
			}
		})

	case "marker_click":
		s.engine.Click(ev.MarkerID)

	case "move_end":
		if ev.Lat != nil && ev.Lng != nil {
			s.engine.MoveEnd(LatLng{Lat: *ev.Lat, Lng: *ev.Lng}, ev.Zoom)
		}

	case "resize":
		s.view.Resize()

	case "located":
		if ev.OK && ev.Lat != nil && ev.Lng != nil {
			s.view.Locate(LatLng{Lat: *ev.Lat, Lng: *ev.Lng}, true)
			return
		}
		if s.deps.LocateIP != nil {
			if loc, ok := s.deps.LocateIP(remoteIP); ok {
				s.view.Locate(loc, true)
				return
			}
		}
		s.view.Locate(LatLng{}, false)
	}
}

// selectTripByID selects whatever is cached immediately, then refreshes the
// trip detail in the background. A refresh that loses the race against a
// newer selection change is dropped by the generation guard.
func (s *mapSession) selectTripByID(tripID string) {
	s.view.UpdateSelection(func(sel *Selection, trips []Trip) {
		if t := findTrip(trips, tripID); t != nil {
			sel.SelectTrip(t)
		}
	})

	gen := s.view.Generation()
	go func() {
		t, err := s.deps.Trips.MapTrip(context.Background(), tripID)
		if err != nil {
			return
		}
		s.view.UpsertTrip(gen, t)
	}()
}

func (s *mapSession) reloadTrips() {
	gen := s.view.Generation()
	trips, err := s.deps.Trips.MapTrips(context.Background())
	if err != nil {
		log.Printf("map session: trip reload failed: %v", err)
		return
	}
	if !s.view.ReplaceTrips(gen, trips) {
		// Superseded by a newer selection; the next feed event or
		// selection pass will carry fresh data.
		return
	}
}

func findTrip(trips []Trip, id string) *Trip {
	for i := range trips {
		if trips[i].ID == id {
			return &trips[i]
		}
	}
	return nil
}

func clientIP(c *websocket.Conn) string {
	host, _, err := net.SplitHostPort(c.RemoteAddr().String())
	if err != nil {
		return c.RemoteAddr().String()
	}
	return host
}
