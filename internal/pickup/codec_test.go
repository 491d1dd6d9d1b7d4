package pickup_test

import (
	"strings"
	"testing"

	"github.com/tanzeem/pickup/internal/pickup"
	"github.com/tanzeem/pickup/internal/tanzeem"
)

func TestEncodeSnapshotLayout(t *testing.T) {
	data, err := pickup.EncodeSnapshot(tanzeem.InitialState(), 42)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	body := string(data)
	for _, want := range []string{`"version":1`, `"revision":42`, `"parentName":"Sara's Mum"`, `"zoneLocked":false`, `"id":"zone-c"`} {
		if !strings.Contains(body, want) {
			t.Errorf("snapshot missing %s: %s", want, body)
		}
	}

	st, rev, err := pickup.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rev != 42 || st.ParentName != "Sara's Mum" {
		t.Errorf("decoded revision %d, state %+v", rev, st)
	}
}

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		wantRev uint64
	}{
		{"wrong version", `{"version":7,"state":{}}`, true, 0},
		{"not json", `{`, true, 0},
		{"sparse state", `{"version":1,"state":{"currentMode":"van","pickupStatus":"pending","overrunCount":0}}`, false, 0},
		{"with revision", `{"version":1,"revision":9,"state":{"currentMode":"zone","pickupStatus":"arrived"}}`, false, 9},
		{"count without history", `{"version":1,"state":{"currentMode":"onsite","pickupStatus":"pending","overrunCount":5,"overrunHistory":[]}}`, true, 0},
		{"history without count", `{"version":1,"state":{"currentMode":"onsite","pickupStatus":"pending","overrunCount":0,"overrunHistory":[{"id":"overrun-1","result":"warning","strikeNumber":1}]}}`, true, 0},
		{"remaining above capacity", `{"version":1,"state":{"currentMode":"onsite","pickupStatus":"pending","zones":[{"id":"zone-a","capacity":10,"remaining":99}]}}`, true, 0},
		{"negative remaining", `{"version":1,"state":{"currentMode":"onsite","pickupStatus":"pending","zones":[{"id":"zone-a","capacity":10,"remaining":-1}]}}`, true, 0},
		{"missing mode", `{"version":1,"state":{"pickupStatus":"pending"}}`, true, 0},
		{"unknown mode", `{"version":1,"state":{"currentMode":"helicopter","pickupStatus":"pending"}}`, true, 0},
		{"missing status", `{"version":1,"state":{"currentMode":"van"}}`, true, 0},
		{"unknown status", `{"version":1,"state":{"currentMode":"van","pickupStatus":"teleported"}}`, true, 0},
		{"locked without zone", `{"version":1,"state":{"currentMode":"zone","pickupStatus":"pending","zoneLocked":true}}`, true, 0},
		{"locked to unknown zone", `{"version":1,"state":{"currentMode":"zone","pickupStatus":"pending","zoneLocked":true,"selectedZoneId":"zone-z"}}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, rev, err := pickup.DecodeSnapshot([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if rev != tt.wantRev {
				t.Errorf("revision = %d, want %d", rev, tt.wantRev)
			}
			if st.TimelineEvents == nil || st.Zones == nil || st.CarpoolRequests == nil {
				t.Errorf("nil slices left after decode: %+v", st)
			}
		})
	}
}

func TestDecodeSnapshotAcceptsEncodedState(t *testing.T) {
	st := tanzeem.InitialState()
	st.OverrunCount = 1
	st.OverrunHistory = append(st.OverrunHistory, tanzeem.OverrunRecord{ID: "overrun-1", Result: tanzeem.ResultWarning, StrikeNumber: 1})
	st.SelectedZoneID = "zone-a"
	st.ZoneLocked = true
	st.Zones[0].Remaining--

	data, err := pickup.EncodeSnapshot(st, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := pickup.DecodeSnapshot(data); err != nil {
		t.Fatalf("decode: %v", err)
	}
}
