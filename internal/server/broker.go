package server

import "sync"

// Broker fans a reload signal out to every live-reload socket.
type Broker struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newBroker() *Broker {
	return &Broker{subs: make(map[chan struct{}]struct{})}
}

func (b *Broker) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish never blocks; a subscriber that already has a pending signal keeps it.
func (b *Broker) Publish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
