package geoip

import (
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/joeyShea/travel-map/internal/mapview"
)

// Locator resolves client IPs to coarse coordinates through a MaxMind city
// database. A nil Locator (no database configured) resolves nothing, so the
// geolocation fallback simply stays off.
type Locator struct {
	reader *geoip2.Reader
}

// Open loads the database at path. An empty path yields a nil Locator.
func Open(path string) (*Locator, error) {
	if path == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Locator{reader: reader}, nil
}

func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}

// Locate returns the IP's coordinate, or false for private, malformed or
// unmapped addresses.
func (l *Locator) Locate(ip string) (mapview.LatLng, bool) {
	if l == nil || l.reader == nil {
		return mapview.LatLng{}, false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return mapview.LatLng{}, false
	}
	record, err := l.reader.City(parsed)
	if err != nil {
		return mapview.LatLng{}, false
	}
	if record.Location.Latitude == 0 && record.Location.Longitude == 0 {
		return mapview.LatLng{}, false
	}
	return mapview.LatLng{Lat: record.Location.Latitude, Lng: record.Location.Longitude}, true
}
