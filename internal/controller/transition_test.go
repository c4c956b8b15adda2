package controller

import (
	"testing"
	"time"
)

func fadeConfig() Config {
	return Config{
		Effect:         EffectFade,
		EffectDuration: 100 * time.Millisecond,
	}
}

func TestTransitionPhases(t *testing.T) {
	var events []TransitionEvent
	var changes []int
	ctrl := readyController(t, 700, fadeConfig(), Callbacks{
		OnTransition:  func(ev TransitionEvent) { events = append(events, ev) },
		OnPageChanged: func(i int) { changes = append(changes, i) },
	})

	ctrl.Next()
	if ctrl.CurrentPage() != 0 {
		t.Fatalf("page %d before the swap, want 0", ctrl.CurrentPage())
	}

	t0 := time.Unix(0, 0)
	ctrl.Update(t0)
	ctrl.Update(t0.Add(30 * time.Millisecond))
	if ctrl.CurrentPage() != 0 {
		t.Fatalf("page %d before half duration, want 0", ctrl.CurrentPage())
	}
	ctrl.Update(t0.Add(50 * time.Millisecond))
	if ctrl.CurrentPage() != 1 {
		t.Fatalf("page %d at the swap, want 1", ctrl.CurrentPage())
	}
	ctrl.Update(t0.Add(100 * time.Millisecond))

	wantPhases := []TransitionPhase{TransitionHide, TransitionSwap, TransitionReveal, TransitionDone}
	if len(events) != len(wantPhases) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(wantPhases))
	}
	for i, want := range wantPhases {
		ev := events[i]
		if ev.Phase != want || ev.Effect != EffectFade || ev.From != 0 || ev.To != 1 {
			t.Errorf("event %d = %+v, want phase %v from 0 to 1", i, ev, want)
		}
	}
	if len(changes) != 1 || changes[0] != 1 {
		t.Errorf("page changes %v, want [1]", changes)
	}

	// The transition is over; time alone must not replay it.
	events = nil
	ctrl.Update(t0.Add(time.Second))
	if len(events) != 0 {
		t.Errorf("finished transition emitted %v", events)
	}
}

func TestTransitionCatchesUpAfterStall(t *testing.T) {
	var events []TransitionEvent
	ctrl := readyController(t, 700, fadeConfig(), Callbacks{
		OnTransition: func(ev TransitionEvent) { events = append(events, ev) },
	})

	ctrl.Next()
	t0 := time.Unix(0, 0)
	ctrl.Update(t0)
	// The host stalled past the whole duration: one Update must land
	// swap, reveal and done together.
	ctrl.Update(t0.Add(250 * time.Millisecond))

	wantPhases := []TransitionPhase{TransitionHide, TransitionSwap, TransitionReveal, TransitionDone}
	if len(events) != len(wantPhases) {
		t.Fatalf("got %d events %v, want %d", len(events), events, len(wantPhases))
	}
	for i, want := range wantPhases {
		if events[i].Phase != want {
			t.Errorf("event %d phase = %v, want %v", i, events[i].Phase, want)
		}
	}
	if ctrl.CurrentPage() != 1 {
		t.Errorf("page %d, want 1", ctrl.CurrentPage())
	}
}

func TestNavigationDuringTransitionSnaps(t *testing.T) {
	var events []TransitionEvent
	ctrl := readyController(t, 700, fadeConfig(), Callbacks{
		OnTransition: func(ev TransitionEvent) { events = append(events, ev) },
	})

	ctrl.Next()
	ctrl.GoToPage(2)
	if ctrl.CurrentPage() != 2 {
		t.Fatalf("page %d after snap, want 2", ctrl.CurrentPage())
	}
	ctrl.Update(time.Unix(0, 0))
	ctrl.Update(time.Unix(1, 0))
	if len(events) != 0 {
		t.Errorf("abandoned transition emitted %v", events)
	}
}

func TestNoEffectNavigatesImmediately(t *testing.T) {
	ctrl := readyController(t, 700, Config{}, Callbacks{})
	ctrl.Next()
	if ctrl.CurrentPage() != 1 {
		t.Errorf("page %d, want 1 without any Update", ctrl.CurrentPage())
	}
}

func TestDestroyClearsTransition(t *testing.T) {
	var events []TransitionEvent
	ctrl := readyController(t, 700, fadeConfig(), Callbacks{
		OnTransition: func(ev TransitionEvent) { events = append(events, ev) },
	})
	ctrl.Next()
	ctrl.Destroy()
	ctrl.Update(time.Unix(0, 0))
	ctrl.Update(time.Unix(1, 0))
	if len(events) != 0 {
		t.Errorf("destroyed controller emitted %v", events)
	}
}

func TestParseEffect(t *testing.T) {
	cases := []struct {
		in   string
		want Effect
		ok   bool
	}{
		{"", EffectNone, true},
		{"none", EffectNone, true},
		{"fade", EffectFade, true},
		{"blur", EffectBlur, true},
		{"slide", EffectSlide, true},
		{"sparkle", EffectNone, false},
	}
	for _, tc := range cases {
		got, err := ParseEffect(tc.in)
		if (err == nil) != tc.ok {
			t.Errorf("ParseEffect(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseEffect(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
