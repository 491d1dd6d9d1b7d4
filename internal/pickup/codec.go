package pickup

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

// snapshotVersion is bumped whenever the persisted AppState layout changes
// incompatibly.
const snapshotVersion = 1

type snapshotDoc struct {
	Version  int              `json:"version"`
	Revision uint64           `json:"revision"`
	State    tanzeem.AppState `json:"state"`
}

// EncodeSnapshot serializes state and the store revision it was taken at
// into the persisted record layout.
func EncodeSnapshot(state tanzeem.AppState, revision uint64) ([]byte, error) {
	return json.Marshal(snapshotDoc{Version: snapshotVersion, Revision: revision, State: state})
}

// DecodeSnapshot parses a persisted record and checks the state invariants.
// Records written before revisions were stored decode with revision 0.
func DecodeSnapshot(data []byte) (tanzeem.AppState, uint64, error) {
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return tanzeem.AppState{}, 0, fmt.Errorf("decoding snapshot: %w", err)
	}
	if doc.Version != snapshotVersion {
		return tanzeem.AppState{}, 0, fmt.Errorf("unsupported snapshot version %d", doc.Version)
	}
	normalize(&doc.State)
	if err := checkState(&doc.State); err != nil {
		return tanzeem.AppState{}, 0, fmt.Errorf("invalid snapshot: %w", err)
	}
	return doc.State, doc.Revision, nil
}

// normalize replaces nil slices from older or hand-written records so the
// JSON surface always renders arrays.
func normalize(s *tanzeem.AppState) {
	if s.OverrunHistory == nil {
		s.OverrunHistory = []tanzeem.OverrunRecord{}
	}
	if s.TimelineEvents == nil {
		s.TimelineEvents = []tanzeem.TimelineEvent{}
	}
	if s.CarpoolRequests == nil {
		s.CarpoolRequests = []string{}
	}
	if s.Zones == nil {
		s.Zones = []tanzeem.Zone{}
	}
	if s.CarpoolFamilies == nil {
		s.CarpoolFamilies = []tanzeem.CarpoolFamily{}
	}
}

// checkState reports the first invariant the commands guarantee but s breaks.
func checkState(s *tanzeem.AppState) error {
	if !s.CurrentMode.Valid() {
		return fmt.Errorf("currentMode %q: %w", s.CurrentMode, ErrInvalidMode)
	}
	if !s.PickupStatus.Valid() {
		return fmt.Errorf("pickupStatus %q: %w", s.PickupStatus, ErrInvalidStatus)
	}
	if s.OverrunCount != len(s.OverrunHistory) {
		return fmt.Errorf("overrunCount %d with %d history records", s.OverrunCount, len(s.OverrunHistory))
	}
	for _, z := range s.Zones {
		if z.Remaining < 0 || z.Remaining > z.Capacity {
			return fmt.Errorf("zone %q has %d of %d places left", z.ID, z.Remaining, z.Capacity)
		}
	}
	if s.ZoneLocked {
		if s.SelectedZoneID == "" {
			return errors.New("zone locked without a selected zone")
		}
		if _, ok := s.Zone(s.SelectedZoneID); !ok {
			return fmt.Errorf("selected zone %q: %w", s.SelectedZoneID, ErrZoneUnavailable)
		}
	}
	return nil
}
