package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("feed")
	defer hub.Unregister(client)

	hub.Broadcast("feed", []byte(`{"type":"trip_created","trip_id":"t1"}`))

	select {
	case msg := <-client.Send:
		if string(msg) != `{"type":"trip_created","trip_id":"t1"}` {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubTopicIsolation(t *testing.T) {
	hub := NewHub(nil)
	feed := hub.Register("feed")
	defer hub.Unregister(feed)
	other := hub.Register("other")
	defer hub.Unregister(other)

	hub.Broadcast("feed", []byte("x"))

	select {
	case <-other.Send:
		t.Fatalf("message leaked across topics")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("feed")
	if ch != "trips:feed:events" {
		t.Fatalf("unexpected channel: %s", ch)
	}
	if topicFromChannel(ch) != "feed" {
		t.Fatalf("unexpected topic")
	}
	if topicFromChannel("bad") != "" {
		t.Fatalf("expected empty topic")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("feed")
	hub.Unregister(client)
	if _, ok := <-client.Send; ok {
		t.Fatalf("expected channel closed")
	}
}

func TestUnregisterTwiceSafe(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("feed")

	// the second call arrives after the topic bucket is gone; it must not
	// close the channel again
	hub.Unregister(client)
	hub.Unregister(client)

	peer := hub.Register("feed")
	defer hub.Unregister(peer)
	gone := hub.Register("feed")
	hub.Unregister(gone)
	hub.Unregister(gone)
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	ws := hub.Register("feed")
	defer hub.Unregister(ws)

	hub.Broadcast("feed", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// events published by other processes arrive through the pattern
	// subscription
	time.Sleep(20 * time.Millisecond)
	if err := client.Publish(context.Background(), "trips:feed:events", "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case msg := <-ws.Send:
			if string(msg) == "pong" {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for redis message")
		}
	}
}

func TestHubRedisPublishError(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	node := hub.Register("feed")
	defer hub.Unregister(node)

	hub.Broadcast("feed", []byte("ping"))
}

func TestFeedSubscriber(t *testing.T) {
	hub := NewHub(nil)
	src := NewFeedSubscriber(hub, "feed")

	ch, cancel := src.Subscribe()
	hub.Broadcast("feed", []byte("reload"))

	select {
	case msg := <-ch:
		if string(msg) != "reload" {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for feed event")
	}

	cancel()
	cancel() // safe to call twice

	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after cancel")
	}
}
