// Package pickup holds the pickup state store: the single AppState aggregate
// of one family, the commands that mutate it and the queries that read it.
// Every applied mutation is snapshotted to a SnapshotSlot and announced to
// subscribers.
package pickup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

// Command names, used for change kinds, logs and metrics labels.
const (
	CmdSelectZone      = "select_zone"
	CmdRecordOverrun   = "record_overrun"
	CmdSetPickupStatus = "set_pickup_status"
	CmdVerifyQR        = "verify_qr"
	CmdSubscribeVan    = "subscribe_van"
	CmdRequestCarpool  = "request_carpool"
	CmdJoinCarpool     = "join_carpool_group"
	CmdSetMode         = "set_mode"
	CmdAddTimeline     = "add_timeline_event"
	CmdResetDemo       = "reset_demo"
)

const (
	OutcomeApplied       = "applied"
	OutcomeRejected      = "rejected"
	OutcomePersistFailed = "persist_failed"
)

const qrVerifiedEvent = "QR Verified - Pickup Authorized"

// Recorder receives store metrics. Implementations must be safe to call
// while the store lock is held.
type Recorder interface {
	IncCommand(command, outcome string)
	SetZoneRemaining(zoneID string, remaining int)
}

type nopRecorder struct{}

func (nopRecorder) IncCommand(string, string)     {}
func (nopRecorder) SetZoneRemaining(string, int) {}

type Option func(*Store)

// WithStorageKey overrides the slot key (default tanzeem.DefaultStorageKey).
func WithStorageKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDs replaces the generator used for record and event ids.
func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.rec = r
		}
	}
}

type Store struct {
	mu      sync.Mutex
	state   tanzeem.AppState
	version uint64

	slot   tanzeem.SnapshotSlot
	key    string
	broker *Broker
	rec    Recorder
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Open rehydrates the store from slot, falling back to the initial demo
// snapshot when the slot is empty or holds an unreadable record.
func Open(ctx context.Context, slot tanzeem.SnapshotSlot, opts ...Option) (*Store, error) {
	s := &Store{
		slot:   slot,
		key:    tanzeem.DefaultStorageKey,
		broker: NewBroker(),
		rec:    nopRecorder{},
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = tanzeem.InitialState()

	data, err := slot.Load(ctx, s.key)
	switch {
	case errors.Is(err, tanzeem.ErrNoSnapshot):
		s.logger.Info("no stored snapshot, starting from initial state", "key", s.key)
	case err != nil:
		return nil, &PersistenceError{Op: "load", Err: err}
	default:
		state, revision, err := DecodeSnapshot(data)
		if err != nil {
			s.logger.Warn("discarding unreadable snapshot", "key", s.key, "error", err)
			break
		}
		s.state, s.version = state, revision
		s.logger.Info("rehydrated snapshot", "key", s.key, "revision", revision,
			"overruns", state.OverrunCount, "timeline_events", len(state.TimelineEvents))
	}

	s.observeZones()
	return s, nil
}

// apply runs fn against the live state under the lock. fn must validate
// before mutating: on error the state is left untouched. After a successful
// fn the snapshot is persisted; a failed write is returned as a
// *PersistenceError but the mutation stands.
func (s *Store) apply(ctx context.Context, cmd string, fn func(st *tanzeem.AppState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(&s.state); err != nil {
		s.rec.IncCommand(cmd, OutcomeRejected)
		s.logger.Warn("command rejected", "command", cmd, "error", err)
		return err
	}
	s.version++

	outcome := OutcomeApplied
	perr := s.persistLocked(ctx)
	if perr != nil {
		outcome = OutcomePersistFailed
		s.logger.Error("snapshot write failed", "command", cmd, "key", s.key, "error", perr)
	}
	s.rec.IncCommand(cmd, outcome)
	s.observeZones()
	s.broker.Publish(Change{Kind: cmd, Version: s.version, At: s.now()})

	return perr
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := EncodeSnapshot(s.state, s.version)
	if err != nil {
		return &PersistenceError{Op: "encode", Err: err}
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *Store) observeZones() {
	for _, z := range s.state.Zones {
		s.rec.SetZoneRemaining(z.ID, z.Remaining)
	}
}

func (s *Store) appendEvent(st *tanzeem.AppState, text string, verified bool) tanzeem.TimelineEvent {
	ev := tanzeem.TimelineEvent{
		ID:        "event-" + s.newID(),
		Timestamp: s.now(),
		Event:     text,
		Verified:  verified,
	}
	st.TimelineEvents = append(st.TimelineEvents, ev)
	return ev
}

// SelectZone reserves one place in the zone, locks the choice for the
// semester and returns the zone as reserved. It fails with ErrAlreadyLocked
// once a zone is locked and with ErrZoneUnavailable when the zone is unknown
// or full.
func (s *Store) SelectZone(ctx context.Context, zoneID string) (tanzeem.Zone, error) {
	var zone tanzeem.Zone
	err := s.apply(ctx, CmdSelectZone, func(st *tanzeem.AppState) error {
		if st.ZoneLocked {
			return fmt.Errorf("selecting %q (locked to %q): %w", zoneID, st.SelectedZoneID, ErrAlreadyLocked)
		}
		idx := -1
		for i, z := range st.Zones {
			if z.ID == zoneID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("zone %q not found: %w", zoneID, ErrZoneUnavailable)
		}
		if st.Zones[idx].Remaining <= 0 {
			return fmt.Errorf("zone %q is full: %w", zoneID, ErrZoneUnavailable)
		}

		st.Zones[idx].Remaining--
		st.SelectedZoneID = zoneID
		st.ZoneLocked = true
		st.CurrentMode = tanzeem.ModeZone
		zone = st.Zones[idx]
		return nil
	})
	return zone, err
}

// RecordOverrun registers one on-site overrun and returns the new record.
func (s *Store) RecordOverrun(ctx context.Context) (tanzeem.OverrunRecord, error) {
	var rec tanzeem.OverrunRecord
	err := s.apply(ctx, CmdRecordOverrun, func(st *tanzeem.AppState) error {
		st.OverrunCount++
		fee := tanzeem.CalculateFee(st.OverrunCount)
		rec = tanzeem.OverrunRecord{
			ID:           "overrun-" + s.newID(),
			Date:         s.now(),
			Result:       fee.Result,
			FeeAmount:    fee.Amount,
			StrikeNumber: st.OverrunCount,
		}
		st.OverrunHistory = append(st.OverrunHistory, rec)
		return nil
	})
	return rec, err
}

// SetPickupStatus moves the pickup to status and logs it on the timeline.
// Any status may follow any other. The event is verified only when the
// pickup completes after a QR verification.
func (s *Store) SetPickupStatus(ctx context.Context, status tanzeem.PickupStatus) (tanzeem.TimelineEvent, error) {
	var ev tanzeem.TimelineEvent
	err := s.apply(ctx, CmdSetPickupStatus, func(st *tanzeem.AppState) error {
		if !status.Valid() {
			return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
		}
		verified := status == tanzeem.StatusComplete && st.QRVerified
		st.PickupStatus = status
		ev = s.appendEvent(st, status.Label(), verified)
		return nil
	})
	return ev, err
}

// VerifyQR latches the QR verification and logs it. Repeated calls log
// repeated events.
func (s *Store) VerifyQR(ctx context.Context) (tanzeem.TimelineEvent, error) {
	var ev tanzeem.TimelineEvent
	err := s.apply(ctx, CmdVerifyQR, func(st *tanzeem.AppState) error {
		st.QRVerified = true
		ev = s.appendEvent(st, qrVerifiedEvent, true)
		return nil
	})
	return ev, err
}

func (s *Store) SubscribeVan(ctx context.Context) error {
	return s.apply(ctx, CmdSubscribeVan, func(st *tanzeem.AppState) error {
		st.VanSubscribedNextSemester = true
		return nil
	})
}

// RequestCarpool records a request to familyID once. The id is not checked
// against the known families.
func (s *Store) RequestCarpool(ctx context.Context, familyID string) error {
	return s.apply(ctx, CmdRequestCarpool, func(st *tanzeem.AppState) error {
		for _, id := range st.CarpoolRequests {
			if id == familyID {
				return nil
			}
		}
		st.CarpoolRequests = append(st.CarpoolRequests, familyID)
		return nil
	})
}

func (s *Store) JoinCarpoolGroup(ctx context.Context) error {
	return s.apply(ctx, CmdJoinCarpool, func(st *tanzeem.AppState) error {
		st.CarpoolGroupJoined = true
		return nil
	})
}

// SetMode overwrites the current mode. A locked zone does not pin the mode.
func (s *Store) SetMode(ctx context.Context, mode tanzeem.PickupMode) error {
	return s.apply(ctx, CmdSetMode, func(st *tanzeem.AppState) error {
		if !mode.Valid() {
			return fmt.Errorf("%q: %w", mode, ErrInvalidMode)
		}
		st.CurrentMode = mode
		return nil
	})
}

func (s *Store) AddTimelineEvent(ctx context.Context, text string, verified bool) (tanzeem.TimelineEvent, error) {
	var ev tanzeem.TimelineEvent
	err := s.apply(ctx, CmdAddTimeline, func(st *tanzeem.AppState) error {
		ev = s.appendEvent(st, text, verified)
		return nil
	})
	return ev, err
}

// ResetDemo discards all history and restores the initial snapshot.
func (s *Store) ResetDemo(ctx context.Context) error {
	return s.apply(ctx, CmdResetDemo, func(st *tanzeem.AppState) error {
		*st = tanzeem.InitialState()
		return nil
	})
}

// Subscribe returns a channel of changes and a func that releases it.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := s.broker.Subscribe()
	return ch, func() { s.broker.Unsubscribe(ch) }
}
