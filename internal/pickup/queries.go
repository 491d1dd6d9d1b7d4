package pickup

import (
	"slices"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

// State returns a deep copy of the aggregate.
func (s *Store) State() tanzeem.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Version counts the mutations applied to the persisted state. It is stored
// with every snapshot, so it keeps counting across restarts.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Snapshot returns a copy of the state together with the version it was
// taken at, read under a single lock.
func (s *Store) Snapshot() (tanzeem.AppState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.version
}

func (s *Store) CurrentMode() tanzeem.PickupMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentMode
}

func (s *Store) Zones() []tanzeem.Zone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.Zones)
}

// SelectedZone returns the locked zone, if any.
func (s *Store) SelectedZone() (tanzeem.Zone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SelectedZoneID == "" {
		return tanzeem.Zone{}, false
	}
	return s.state.Zone(s.state.SelectedZoneID)
}

func (s *Store) OverrunHistory() []tanzeem.OverrunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.OverrunHistory)
}

// Timeline returns events oldest first.
func (s *Store) Timeline() []tanzeem.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.TimelineEvents)
}

// TimelineNewestFirst returns a reversed copy for display.
func (s *Store) TimelineNewestFirst() []tanzeem.TimelineEvent {
	events := s.Timeline()
	slices.Reverse(events)
	return events
}

type Subscriptions struct {
	VanNextSemester bool `json:"vanNextSemester"`
}

func (s *Store) Subscriptions() Subscriptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subscriptions{VanNextSemester: s.state.VanSubscribedNextSemester}
}

type Carpool struct {
	Families    []tanzeem.CarpoolFamily `json:"families"`
	Requests    []string                `json:"requests"`
	GroupJoined bool                    `json:"groupJoined"`
}

func (s *Store) Carpool() Carpool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Carpool{
		Families:    slices.Clone(s.state.CarpoolFamilies),
		Requests:    slices.Clone(s.state.CarpoolRequests),
		GroupJoined: s.state.CarpoolGroupJoined,
	}
}

func (s *Store) NextFee() tanzeem.FeePreview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tanzeem.NextFee(s.state.OverrunCount)
}

func (s *Store) Progress() []tanzeem.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tanzeem.Progress(s.state.PickupStatus)
}

func (s *Store) OpsMetrics(cfg tanzeem.OpsConfig) tanzeem.OpsMetrics {
	return tanzeem.ComputeOpsMetrics(s.State(), cfg)
}
