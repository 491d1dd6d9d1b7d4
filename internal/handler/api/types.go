package api

import (
	"github.com/tanzeem/pickup/internal/tanzeem"
)

type ModeRequest struct {
	Mode tanzeem.PickupMode `json:"mode" validate:"required"`
}

type SelectZoneRequest struct {
	ZoneID string `json:"zoneId" validate:"required"`
}

type StatusRequest struct {
	Status tanzeem.PickupStatus `json:"status" validate:"required"`
}

type TimelineRequest struct {
	Event    string `json:"event" validate:"required,max=200"`
	Verified bool   `json:"verified"`
}

type CarpoolRequest struct {
	FamilyID string `json:"familyId" validate:"required"`
}

// StateResponse is the full aggregate plus the values the app derives from
// it. Warning is set when a mutation was applied but could not be saved.
type StateResponse struct {
	State    tanzeem.AppState   `json:"state"`
	Version  uint64             `json:"version"`
	NextFee  tanzeem.FeePreview `json:"nextFee"`
	Progress []tanzeem.Step     `json:"progress"`
	Warning  string             `json:"warning,omitempty"`
}

type OverrunResponse struct {
	Overrun tanzeem.OverrunRecord `json:"overrun"`
	StateResponse
}

type EventResponse struct {
	Event tanzeem.TimelineEvent `json:"event"`
	StateResponse
}

// StateEvent is one message of the live state streams.
type StateEvent struct {
	Type    string           `json:"type"`
	Version uint64           `json:"version"`
	State   tanzeem.AppState `json:"state"`
}
