package stream

import "sync"

// FeedSubscriber adapts the hub to the map session's feed interface: every
// subscriber gets its own client on the feed topic and a cancel that is safe
// to call more than once.
type FeedSubscriber struct {
	hub   *Hub
	topic string
}

func NewFeedSubscriber(hub *Hub, topic string) *FeedSubscriber {
	return &FeedSubscriber{hub: hub, topic: topic}
}

func (f *FeedSubscriber) Subscribe() (<-chan []byte, func()) {
	client := f.hub.Register(f.topic)
	var once sync.Once
	cancel := func() {
		once.Do(func() { f.hub.Unregister(client) })
	}
	return client.Send, cancel
}
