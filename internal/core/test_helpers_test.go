package core

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testCoordinator(opts ...Option) *Coordinator {
	logger := zerolog.Nop()
	return NewCoordinator(&logger, opts...)
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// mustUsers reads users-updated events until one matches the wanted list
// (several republishes may be in flight at once).
func mustUsers(t *testing.T, ch <-chan *Event, want []string) {
	t.Helper()

	var last []string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil || ev.Kind != EventUsersUpdated {
				continue
			}
			last = ev.Users
			if equalUsers(ev.Users, want) {
				return
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected users-updated %v, last seen %v", want, last)
}

func equalUsers(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// drainQuiet asserts that no event of the given kind arrives within the
// window. Used for negative delivery checks.
func drainQuiet(t *testing.T, ch <-chan *Event, kind EventKind, window time.Duration) {
	t.Helper()

	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event of kind %v: %+v", kind, ev)
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}
