package mapview

import (
	"fmt"
	"time"

	"github.com/joeyShea/travel-map/internal/metrics"
)

// LocationKey collapses a coordinate to six decimal places (~11cm), the
// identity used to merge trips and entries that share a real-world position.
func LocationKey(p LatLng) string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

var tripDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"Jan 2, 2006",
}

// parseTripDate returns the zero time for malformed input, ordering such
// trips as the oldest in their location group.
func parseTripDate(value string) time.Time {
	for _, layout := range tripDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DedupByLocation groups trips by location key and keeps the most recent
// trip of each group. Group order follows first appearance in the input.
func DedupByLocation(trips []Trip) []Trip {
	byKey := make(map[string]int, len(trips))
	var reps []Trip
	for _, t := range trips {
		key := LocationKey(t.At)
		idx, seen := byKey[key]
		if !seen {
			byKey[key] = len(reps)
			reps = append(reps, t)
			continue
		}
		if parseTripDate(t.Date).After(parseTripDate(reps[idx].Date)) {
			reps[idx] = t
		}
	}
	return reps
}

type desiredMarker struct {
	spec    MarkerSpec
	onClick func()
}

// MarkerManager reconciles the rendered marker set against the desired set
// derived from the trip list and the current selection.
type MarkerManager struct {
	engine Engine

	onTripClick     func(tripID string)
	onActivityClick func(Activity)
	onLodgingClick  func(Lodging)

	rendered map[string]renderedMarker
}

type renderedMarker struct {
	spec   MarkerSpec
	handle Marker
}

func NewMarkerManager(engine Engine, onTripClick func(string), onActivityClick func(Activity), onLodgingClick func(Lodging)) *MarkerManager {
	return &MarkerManager{
		engine:          engine,
		onTripClick:     onTripClick,
		onActivityClick: onActivityClick,
		onLodgingClick:  onLodgingClick,
		rendered:        map[string]renderedMarker{},
	}
}

// Reconcile diffs the desired marker set against what is rendered: markers
// whose spec changed in any way are destroyed and recreated, unchanged ones
// are left alone, so identical inputs cause zero churn and click handlers
// always close over the current entity. Returns the add/remove counts.
func (m *MarkerManager) Reconcile(trips []Trip, sel Selection) (added, removed int) {
	desired := m.desired(trips, sel)

	for key, cur := range m.rendered {
		want, ok := desired[key]
		if ok && want.spec == cur.spec {
			continue
		}
		cur.handle.Remove()
		delete(m.rendered, key)
		removed++
	}

	for key, want := range desired {
		if _, ok := m.rendered[key]; ok {
			continue
		}
		handle := m.engine.AddMarker(want.spec, want.onClick)
		m.rendered[key] = renderedMarker{spec: want.spec, handle: handle}
		added++
	}

	metrics.MarkerAddsTotal.Add(float64(added))
	metrics.MarkerRemovesTotal.Add(float64(removed))
	return added, removed
}

// Count returns the number of markers currently rendered.
func (m *MarkerManager) Count() int {
	return len(m.rendered)
}

// ActiveTripPins returns how many trip pins are in the active visual state.
func (m *MarkerManager) ActiveTripPins() int {
	n := 0
	for _, r := range m.rendered {
		if r.spec.Kind == KindTrip && r.spec.Active {
			n++
		}
	}
	return n
}

// Clear removes every rendered marker.
func (m *MarkerManager) Clear() {
	for key, cur := range m.rendered {
		cur.handle.Remove()
		delete(m.rendered, key)
	}
}

func (m *MarkerManager) desired(trips []Trip, sel Selection) map[string]desiredMarker {
	out := map[string]desiredMarker{}

	reps := DedupByLocation(trips)

	if fs := sel.FullScreen; fs != nil {
		// Full screen shows a single highlighted pin for the focused
		// trip's representative location and nothing else.
		fsKey := LocationKey(fs.At)
		rep := *fs
		for _, r := range reps {
			if LocationKey(r.At) == fsKey {
				rep = r
				break
			}
		}
		m.addTripPin(out, rep, true)
	} else {
		selectedKey := ""
		if sel.Trip != nil {
			selectedKey = LocationKey(sel.Trip.At)
		}
		for _, rep := range reps {
			m.addTripPin(out, rep, LocationKey(rep.At) == selectedKey)
		}
	}

	if focused := sel.Focused(); focused != nil {
		tripKey := LocationKey(focused.At)
		for _, a := range focused.Activities {
			if a.Coord == nil || LocationKey(*a.Coord) == tripKey {
				continue
			}
			activity := a
			active := sel.Activity != nil && sel.Activity.ID == a.ID
			out["activity:"+a.ID] = desiredMarker{
				spec: MarkerSpec{
					Kind:   KindActivity,
					ID:     a.ID,
					At:     *a.Coord,
					Title:  a.Title,
					Image:  a.Image,
					Active: active,
				},
				onClick: func() { m.onActivityClick(activity) },
			}
		}
		for _, l := range focused.Lodgings {
			if l.Coord == nil || LocationKey(*l.Coord) == tripKey {
				continue
			}
			lodging := l
			active := sel.Lodging != nil && sel.Lodging.ID == l.ID
			out["lodging:"+l.ID] = desiredMarker{
				spec: MarkerSpec{
					Kind:   KindLodging,
					ID:     l.ID,
					At:     *l.Coord,
					Title:  l.Name,
					Image:  l.Image,
					Active: active,
				},
				onClick: func() { m.onLodgingClick(lodging) },
			}
		}
	}

	return out
}

func (m *MarkerManager) addTripPin(out map[string]desiredMarker, rep Trip, active bool) {
	id := rep.ID
	out["trip:"+LocationKey(rep.At)] = desiredMarker{
		spec: MarkerSpec{
			Kind:   KindTrip,
			ID:     rep.ID,
			At:     rep.At,
			Title:  rep.Title,
			Image:  rep.Thumbnail,
			Active: active,
		},
		onClick: func() { m.onTripClick(id) },
	}
}
