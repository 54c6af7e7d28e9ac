package mapview

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisViewportStoreRoundTrip(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	store := NewRedisViewportStore(client, time.Hour)
	ctx := context.Background()

	if _, ok := store.Load(ctx, "s1"); ok {
		t.Fatalf("expected absent viewport before save")
	}

	want := Viewport{Lat: 40.7, Lng: -74.0, Zoom: 8}
	if err := store.Save(ctx, "s1", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := store.Load(ctx, "s1")
	if !ok || got != want {
		t.Fatalf("load: got %+v ok=%v", got, ok)
	}
}

func TestRedisViewportStoreMalformedValueIsAbsent(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	s.Set(viewportKeyPrefix+"s1", "not-json")

	store := NewRedisViewportStore(client, time.Hour)
	if _, ok := store.Load(context.Background(), "s1"); ok {
		t.Fatalf("malformed stored value must read as absent")
	}
}

func TestMemoryViewportStore(t *testing.T) {
	store := NewMemoryViewportStore()
	ctx := context.Background()

	if _, ok := store.Load(ctx, "s1"); ok {
		t.Fatalf("expected empty store")
	}
	_ = store.Save(ctx, "s1", Viewport{Lat: 1, Lng: 2, Zoom: 3})
	v, ok := store.Load(ctx, "s1")
	if !ok || v.Zoom != 3 {
		t.Fatalf("unexpected load: %+v ok=%v", v, ok)
	}
}
