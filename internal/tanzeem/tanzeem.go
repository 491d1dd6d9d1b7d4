// Package tanzeem defines the core domain types and service interfaces for
// school pickup. It has no external dependencies.
package tanzeem

import (
	"context"
	"errors"
	"time"
)

type PickupMode string

const (
	ModeOnsite PickupMode = "onsite"
	ModeZone   PickupMode = "zone"
	ModeVan    PickupMode = "van"
)

// Valid reports whether m is one of the three pickup modes.
func (m PickupMode) Valid() bool {
	switch m {
	case ModeOnsite, ModeZone, ModeVan:
		return true
	}
	return false
}

type PickupStatus string

const (
	StatusPending  PickupStatus = "pending"
	StatusReleased PickupStatus = "released"
	StatusBoarded  PickupStatus = "boarded"
	StatusArrived  PickupStatus = "arrived"
	StatusComplete PickupStatus = "complete"
)

// Valid reports whether s is one of the five pickup statuses.
func (s PickupStatus) Valid() bool {
	return statusIndex(s) >= 0
}

// Label is the timeline text recorded when the status is set.
func (s PickupStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusReleased:
		return "Child Released from School"
	case StatusBoarded:
		return "Boarded Shuttle"
	case StatusArrived:
		return "Arrived at Zone"
	case StatusComplete:
		return "Pickup Complete"
	}
	return string(s)
}

type OverrunResult string

const (
	ResultWarning OverrunResult = "warning"
	ResultFee     OverrunResult = "fee"
)

type Zone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Distance  string `json:"distance"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
}

type OverrunRecord struct {
	ID           string        `json:"id"`
	Date         time.Time     `json:"date"`
	Result       OverrunResult `json:"result"`
	FeeAmount    int           `json:"feeAmount,omitempty"`
	StrikeNumber int           `json:"strikeNumber"`
}

type TimelineEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	Verified  bool      `json:"verified"`
}

type CarpoolFamily struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Neighbourhood string `json:"neighbourhood"`
	ChildName     string `json:"childName"`
	MatchScore    int    `json:"matchScore"`
}

// AppState is the whole pickup aggregate for one family. Snapshots of it are
// the unit of persistence and reset.
type AppState struct {
	ParentName string `json:"parentName"`
	ChildName  string `json:"childName"`
	SchoolName string `json:"schoolName"`
	PickupTime string `json:"pickupTime"`

	CurrentMode    PickupMode `json:"currentMode"`
	SelectedZoneID string     `json:"selectedZoneId,omitempty"`
	ZoneLocked     bool       `json:"zoneLocked"`

	OverrunCount   int             `json:"overrunCount"`
	OverrunHistory []OverrunRecord `json:"overrunHistory"`

	PickupStatus PickupStatus `json:"pickupStatus"`
	QRVerified   bool         `json:"qrVerified"`

	TimelineEvents []TimelineEvent `json:"timelineEvents"`

	VanSubscribedNextSemester bool `json:"vanSubscribedNextSemester"`

	CarpoolRequests    []string `json:"carpoolRequests"`
	CarpoolGroupJoined bool     `json:"carpoolGroupJoined"`

	Zones           []Zone          `json:"zones"`
	CarpoolFamilies []CarpoolFamily `json:"carpoolFamilies"`
}

// Zone returns the zone with the given id.
func (s *AppState) Zone(id string) (Zone, bool) {
	for _, z := range s.Zones {
		if z.ID == id {
			return z, true
		}
	}
	return Zone{}, false
}

// FeesTotal sums the fee amounts of every recorded overrun.
func (s *AppState) FeesTotal() int {
	total := 0
	for _, o := range s.OverrunHistory {
		if o.Result == ResultFee {
			total += o.FeeAmount
		}
	}
	return total
}

// Clone returns a deep copy; slices in the copy share nothing with s.
func (s AppState) Clone() AppState {
	s.OverrunHistory = cloneSlice(s.OverrunHistory)
	s.TimelineEvents = cloneSlice(s.TimelineEvents)
	s.CarpoolRequests = cloneSlice(s.CarpoolRequests)
	s.Zones = cloneSlice(s.Zones)
	s.CarpoolFamilies = cloneSlice(s.CarpoolFamilies)
	return s
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// ErrNoSnapshot is returned by a SnapshotSlot that holds nothing under the key.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotSlot is a durable key-value slot holding serialized AppState snapshots.
type SnapshotSlot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
