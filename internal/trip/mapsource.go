package trip

import (
	"context"

	"github.com/joeyShea/travel-map/internal/mapview"
)

// MapSource projects public trips into the shape the map engine consumes.
// Trips without a coordinate never reach the map.
type MapSource struct {
	svc *Service
}

func NewMapSource(svc *Service) *MapSource {
	return &MapSource{svc: svc}
}

func (m *MapSource) MapTrips(ctx context.Context) ([]mapview.Trip, error) {
	trips, err := m.svc.ListTrips(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make([]mapview.Trip, 0, len(trips))
	for _, t := range trips {
		if !t.HasCoordinate() {
			continue
		}
		out = append(out, toMapTrip(t))
	}
	return out, nil
}

func (m *MapSource) MapTrip(ctx context.Context, tripID string) (mapview.Trip, error) {
	t, err := m.svc.GetTrip(ctx, tripID, "")
	if err != nil {
		return mapview.Trip{}, err
	}
	if !t.HasCoordinate() {
		return mapview.Trip{}, ErrNotFound
	}
	return toMapTrip(t), nil
}

func toMapTrip(t Trip) mapview.Trip {
	mt := mapview.Trip{
		ID:        t.ID,
		Title:     t.Title,
		Thumbnail: t.ThumbnailURL,
		Author:    t.Owner.Name,
		Date:      t.Date,
		At:        mapview.LatLng{Lat: *t.Latitude, Lng: *t.Longitude},
	}
	for _, a := range t.Activities {
		mt.Activities = append(mt.Activities, mapview.Activity{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Image:       a.ThumbnailURL,
			Coord:       toCoord(a.Latitude, a.Longitude),
		})
	}
	for _, l := range t.Lodgings {
		mt.Lodgings = append(mt.Lodgings, mapview.Lodging{
			ID:          l.ID,
			Name:        l.Title,
			Description: l.Description,
			Image:       l.ThumbnailURL,
			Address:     l.Address,
			Coord:       toCoord(l.Latitude, l.Longitude),
		})
	}
	return mt
}

func toCoord(lat, lng *float64) *mapview.LatLng {
	if lat == nil || lng == nil {
		return nil
	}
	return &mapview.LatLng{Lat: *lat, Lng: *lng}
}
