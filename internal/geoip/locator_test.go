package geoip

import "testing"

func TestOpenEmptyPath(t *testing.T) {
	locator, err := Open("")
	if err != nil {
		t.Fatalf("empty path must not error: %v", err)
	}
	if locator != nil {
		t.Fatalf("expected nil locator when unconfigured")
	}
}

func TestNilLocatorIsSafe(t *testing.T) {
	var locator *Locator

	if _, ok := locator.Locate("8.8.8.8"); ok {
		t.Fatalf("nil locator must resolve nothing")
	}
	if err := locator.Close(); err != nil {
		t.Fatalf("nil locator close: %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("/nonexistent/GeoLite2-City.mmdb"); err == nil {
		t.Fatalf("expected error for missing database")
	}
}
