package locksignal

import (
	"testing"
	"time"
)

func TestNotifyReachesAllSubscribers(t *testing.T) {
	var s Signal
	ch1, cancel1 := s.Subscribe()
	defer cancel1()
	ch2, cancel2 := s.Subscribe()
	defer cancel2()

	s.Notify()

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d not notified", i)
		}
	}
}

func TestNotifyWithoutSubscribersDoesNotBlock(t *testing.T) {
	var s Signal
	done := make(chan struct{})
	go func() {
		s.Notify()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked with no subscribers")
	}
}

func TestCancelledSubscriberIsNotNotified(t *testing.T) {
	var s Signal
	ch, cancel := s.Subscribe()
	cancel()
	cancel() // idempotent

	s.Notify()
	select {
	case <-ch:
		t.Fatal("cancelled subscriber must not receive events")
	case <-time.After(50 * time.Millisecond):
	}
}

// A storm of lock responses collapses into one pending event per
// subscriber; an undrained channel is never blocked on.
func TestNotifyCoalescesWhenUndrained(t *testing.T) {
	var s Signal
	ch, cancel := s.Subscribe()
	defer cancel()

	for i := 0; i < 10; i++ {
		s.Notify()
	}

	<-ch
	select {
	case <-ch:
		t.Fatal("expected a single coalesced event")
	case <-time.After(50 * time.Millisecond):
	}
}
