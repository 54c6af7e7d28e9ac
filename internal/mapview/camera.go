package mapview

import "github.com/joeyShea/travel-map/internal/metrics"

// Camera decides when and where the viewport animates. Each rule keeps its
// own "last focused key" so unrelated reconciliation passes never restart an
// animation; a new fly-to simply supersedes whatever the engine has in
// flight.
type Camera struct {
	engine Engine

	lastFullScreenKey string
	lastSelectedKey   string
	lastDetailKey     string
}

func NewCamera(engine Engine) *Camera {
	return &Camera{engine: engine}
}

// Update inspects the selection and issues at most one trip-level and one
// detail-level move. A full deselect leaves the user's viewport alone.
func (c *Camera) Update(sel Selection) {
	if fs := sel.FullScreen; fs != nil {
		key := LocationKey(fs.At)
		if key != c.lastFullScreenKey {
			c.lastFullScreenKey = key
			if b, ok := BoundsOf(focusPoints(fs)); ok {
				c.engine.FlyToBounds(b, fullScreenPad, fullScreenMaxZoom, fullScreenFlyDuration)
				metrics.CameraMovesTotal.Inc()
			}
		}
	} else {
		if c.lastFullScreenKey != "" {
			// Leaving full screen resets sidebar tracking so that
			// re-selecting the same trip re-triggers its focus move.
			c.lastFullScreenKey = ""
			c.lastSelectedKey = ""
		}
		if t := sel.Trip; t != nil {
			key := LocationKey(t.At)
			if key != c.lastSelectedKey {
				c.lastSelectedKey = key
				c.engine.FlyTo(t.At, selectedTripZoom, selectedFlyDuration)
				metrics.CameraMovesTotal.Inc()
			}
		} else {
			c.lastSelectedKey = ""
		}
	}

	detailKey, target := detailFocus(sel)
	if detailKey == "" {
		c.lastDetailKey = ""
		return
	}
	if detailKey != c.lastDetailKey {
		c.lastDetailKey = detailKey
		c.engine.FlyTo(target, detailZoom, detailFlyDuration)
		metrics.CameraMovesTotal.Inc()
	}
}

// focusPoints collects the trip coordinate plus every located child, the
// region a full-screen entry must fit.
func focusPoints(t *Trip) []LatLng {
	points := []LatLng{t.At}
	for _, a := range t.Activities {
		if a.Coord != nil {
			points = append(points, *a.Coord)
		}
	}
	for _, l := range t.Lodgings {
		if l.Coord != nil {
			points = append(points, *l.Coord)
		}
	}
	return points
}

// detailFocus keys detail moves by (kind, id) so switching between an
// activity and a lodging always re-triggers while re-renders do not.
func detailFocus(sel Selection) (string, LatLng) {
	if a := sel.Activity; a != nil && a.Coord != nil {
		return "activity:" + a.ID, *a.Coord
	}
	if l := sel.Lodging; l != nil && l.Coord != nil {
		return "lodging:" + l.ID, *l.Coord
	}
	return "", LatLng{}
}
