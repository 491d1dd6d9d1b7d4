package tanzeem_test

import (
	"testing"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name         string
		current      tanzeem.PickupStatus
		wantComplete []bool
		wantCurrent  int
	}{
		{"pending", tanzeem.StatusPending, []bool{false, false, false, false, false}, 0},
		{"boarded", tanzeem.StatusBoarded, []bool{true, true, false, false, false}, 2},
		{"complete", tanzeem.StatusComplete, []bool{true, true, true, true, false}, 4},
		{"unknown", tanzeem.PickupStatus("lost"), []bool{false, false, false, false, false}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := tanzeem.Progress(tt.current)
			if len(steps) != 5 {
				t.Fatalf("len = %d, want 5", len(steps))
			}
			for i, s := range steps {
				if s.Complete != tt.wantComplete[i] {
					t.Errorf("step %d complete = %v, want %v", i, s.Complete, tt.wantComplete[i])
				}
				if s.Current != (i == tt.wantCurrent) {
					t.Errorf("step %d current = %v", i, s.Current)
				}
			}
		})
	}
}

func TestProgressSkipBack(t *testing.T) {
	// Jumping straight to arrived marks released and boarded complete even
	// though they never happened.
	steps := tanzeem.Progress(tanzeem.StatusArrived)
	if !steps[1].Complete || !steps[2].Complete {
		t.Fatalf("skipped steps not shown complete: %+v", steps)
	}

	steps = tanzeem.Progress(tanzeem.StatusReleased)
	if steps[2].Complete || steps[3].Complete {
		t.Fatalf("later steps shown complete after moving back: %+v", steps)
	}
}

func TestInitialStateFresh(t *testing.T) {
	a := tanzeem.InitialState()
	b := tanzeem.InitialState()

	a.Zones[0].Remaining = 0
	a.CarpoolFamilies[0].Name = "changed"

	if b.Zones[0].Remaining != 12 {
		t.Errorf("zones shared between snapshots: remaining = %d", b.Zones[0].Remaining)
	}
	if b.CarpoolFamilies[0].Name != "Ahmed Family" {
		t.Errorf("families shared between snapshots: %q", b.CarpoolFamilies[0].Name)
	}
}

func TestStatusLabels(t *testing.T) {
	want := map[tanzeem.PickupStatus]string{
		tanzeem.StatusPending:  "Pending",
		tanzeem.StatusReleased: "Child Released from School",
		tanzeem.StatusBoarded:  "Boarded Shuttle",
		tanzeem.StatusArrived:  "Arrived at Zone",
		tanzeem.StatusComplete: "Pickup Complete",
	}
	for s, label := range want {
		if !s.Valid() {
			t.Errorf("%q not valid", s)
		}
		if got := s.Label(); got != label {
			t.Errorf("%q label = %q, want %q", s, got, label)
		}
	}
	if tanzeem.PickupStatus("done").Valid() {
		t.Error("unexpected status reported valid")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := tanzeem.InitialState()
	s.CarpoolRequests = append(s.CarpoolRequests, "family-1")

	c := s.Clone()
	c.Zones[1].Remaining = 1
	c.CarpoolRequests[0] = "family-9"

	if s.Zones[1].Remaining != 31 || s.CarpoolRequests[0] != "family-1" {
		t.Fatalf("clone shares slices with original")
	}
}
