package trip

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
)

func TestMapTripsSkipsUnlocatedTrips(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM trips t`).
		WithArgs("").
		WillReturnRows(tripRows().
			AddRow("trip-1", "Yosemite", "", "thumb.jpg", ptr(37.86), ptr(-119.54),
				nil, "", &date, "public", "user-1",
				"Ana", "", false, "", "", time.Now()).
			AddRow("trip-2", "No pin yet", "", "", nil, nil,
				nil, "", nil, "public", "user-2",
				"Ben", "", false, "", "", time.Now()))
	mock.ExpectQuery(`SELECT trip_id, tag FROM trip_tags`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"trip_id", "tag"}))
	mock.ExpectQuery(`SELECT .* FROM lodgings`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "title", "description", "address", "latitude", "longitude", "thumbnail_url", "cost", "created_at"}))
	mock.ExpectQuery(`SELECT .* FROM activities`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "trip_id", "title", "description", "latitude", "longitude", "thumbnail_url", "cost", "created_at"}).
			AddRow("act-1", "trip-1", "Half Dome", "", ptr(37.87), ptr(-119.53), "", nil, time.Now()).
			AddRow("act-2", "trip-1", "Valley walk", "", nil, nil, "", nil, time.Now()))

	src := NewMapSource(NewService(mock, nil))
	trips, err := src.MapTrips(context.Background())
	if err != nil {
		t.Fatalf("map trips: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("unlocated trips must not reach the map, got %d", len(trips))
	}

	mt := trips[0]
	if mt.ID != "trip-1" || mt.Author != "Ana" || mt.Date != "2024-06-01" {
		t.Fatalf("unexpected projection: %+v", mt)
	}
	if mt.At.Lat != 37.86 || mt.At.Lng != -119.54 {
		t.Fatalf("unexpected coordinate: %+v", mt.At)
	}
	if len(mt.Activities) != 2 {
		t.Fatalf("expected both activities carried, got %d", len(mt.Activities))
	}
	if mt.Activities[0].Coord == nil || mt.Activities[1].Coord != nil {
		t.Fatalf("activity coordinates must map nil to nil")
	}
}
