// Package locksignal carries the process-wide "account locked" notification.
// The server reporting an administrative lock is advisory: it must not tear
// down credentials or force navigation, so the pipeline publishes here and
// lets consumers (a modal, a CLI banner) decide what to show.
package locksignal

import "sync"

// Signal is a single-event broadcast channel with no payload. The zero
// value is ready to use.
type Signal struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// Subscribe registers a listener. The returned channel receives one value
// per Notify. cancel removes the subscription; it is safe to call twice.
func (s *Signal) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]chan struct{})
	}
	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// Notify broadcasts the lock event. Never blocks: a subscriber that has not
// drained its pending event is not signalled again, which collapses a storm
// of locked responses into one visible notification.
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
