package mapview

import "time"

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a rectangular region expressed by its corners.
type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

// Extend grows the bounds so they contain p.
func (b Bounds) Extend(p LatLng) Bounds {
	if p.Lat < b.SouthWest.Lat {
		b.SouthWest.Lat = p.Lat
	}
	if p.Lat > b.NorthEast.Lat {
		b.NorthEast.Lat = p.Lat
	}
	if p.Lng < b.SouthWest.Lng {
		b.SouthWest.Lng = p.Lng
	}
	if p.Lng > b.NorthEast.Lng {
		b.NorthEast.Lng = p.Lng
	}
	return b
}

// BoundsOf returns the smallest bounds containing all points.
func BoundsOf(points []LatLng) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{SouthWest: points[0], NorthEast: points[0]}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

// MarkerKind distinguishes the three pin shapes rendered on the map.
type MarkerKind string

const (
	KindTrip     MarkerKind = "trip"
	KindActivity MarkerKind = "activity"
	KindLodging  MarkerKind = "lodging"
)

// MarkerSpec describes one pin as it should appear on the map. Specs are
// comparable; the reconciler treats any field change as a different pin.
type MarkerSpec struct {
	Kind   MarkerKind `json:"kind"`
	ID     string     `json:"id"`
	At     LatLng     `json:"at"`
	Title  string     `json:"title"`
	Image  string     `json:"image"`
	Active bool       `json:"active"`
}

// Marker is a handle to one rendered pin. It is owned by the MarkerManager
// and must only be removed, never reused for a different entity.
type Marker interface {
	Remove()
}

// Engine is the imperative adapter over the underlying map renderer. All
// direct engine calls in the package go through it; everything above deals
// only in declarative desired state.
type Engine interface {
	SetView(center LatLng, zoom int)
	FlyTo(center LatLng, zoom int, duration time.Duration)
	FlyToBounds(b Bounds, pad float64, maxZoom int, duration time.Duration)
	AddMarker(spec MarkerSpec, onClick func()) Marker
	InvalidateSize()
	OnMoveEnd(fn func(center LatLng, zoom int))
	Close()
}

// Viewport geometry and animation constants. Zooms and durations match the
// product's tuned values: a continental default view, a regional zoom for a
// sidebar-selected trip, a street-level zoom for activity/lodging pins and a
// city-level zoom after geolocation.
const (
	defaultZoom       = 4
	selectedTripZoom  = 6
	geolocateZoom     = 10
	detailZoom        = 13
	fullScreenMaxZoom = 12
	fullScreenPad     = 0.5

	selectedFlyDuration   = 1200 * time.Millisecond
	detailFlyDuration     = time.Second
	fullScreenFlyDuration = 1500 * time.Millisecond
	geolocateFlyDuration  = 1500 * time.Millisecond
)

// DefaultCenter is the continental-US fallback view used when no viewport
// was stored for the session.
var DefaultCenter = LatLng{Lat: 39.5, Lng: -98.35}
