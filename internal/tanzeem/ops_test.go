package tanzeem_test

import (
	"testing"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

func withOverruns(n int) tanzeem.AppState {
	s := tanzeem.InitialState()
	for i := 1; i <= n; i++ {
		fee := tanzeem.CalculateFee(i)
		s.OverrunHistory = append(s.OverrunHistory, tanzeem.OverrunRecord{
			Result:       fee.Result,
			FeeAmount:    fee.Amount,
			StrikeNumber: i,
		})
	}
	s.OverrunCount = n
	return s
}

func TestComputeOpsMetricsFresh(t *testing.T) {
	m := tanzeem.ComputeOpsMetrics(tanzeem.InitialState(), tanzeem.DefaultOpsConfig())

	if m.TotalParents != 247 {
		t.Errorf("totalParents = %d, want 247", m.TotalParents)
	}
	if m.ModeSplit != (tanzeem.ModeSplit{Onsite: 89, Zone: 142, VanIntent: 16}) {
		t.Errorf("modeSplit = %+v", m.ModeSplit)
	}
	if m.AvgOverruns != 1.3 {
		t.Errorf("avgOverruns = %v, want 1.3", m.AvgOverruns)
	}
	if m.TotalFees != 1240 {
		t.Errorf("totalFees = %d, want 1240", m.TotalFees)
	}

	// The live family has no warnings yet; Ali H. stays in on warnings alone.
	wantNames := []string{"Mohammed A.", "Fatima K.", "Ali H."}
	if len(m.RiskParents) != len(wantNames) {
		t.Fatalf("riskParents = %+v", m.RiskParents)
	}
	for i, name := range wantNames {
		if m.RiskParents[i].Name != name {
			t.Errorf("riskParents[%d] = %q, want %q", i, m.RiskParents[i].Name, name)
		}
	}
}

func TestComputeOpsMetricsLiveFamily(t *testing.T) {
	tests := []struct {
		name         string
		overruns     int
		wantListed   bool
		wantWarnings int
		wantFees     int
		wantTotal    int
	}{
		{"two warnings", 2, false, 0, 0, 1240},
		{"three warnings", 3, true, 3, 0, 1240},
		{"first fee", 4, true, 4, 20, 1260},
		{"second fee", 5, true, 5, 60, 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tanzeem.ComputeOpsMetrics(withOverruns(tt.overruns), tanzeem.DefaultOpsConfig())

			if m.TotalFees != tt.wantTotal {
				t.Errorf("totalFees = %d, want %d", m.TotalFees, tt.wantTotal)
			}

			first := m.RiskParents[0]
			listed := first.Name == "Sara's Mum"
			if listed != tt.wantListed {
				t.Fatalf("live family listed = %v, want %v", listed, tt.wantListed)
			}
			if listed && (first.Warnings != tt.wantWarnings || first.Fees != tt.wantFees) {
				t.Errorf("live row = %+v, want warnings %d fees %d", first, tt.wantWarnings, tt.wantFees)
			}
		})
	}
}

func TestComputeOpsMetricsCustomConfig(t *testing.T) {
	cfg := tanzeem.OpsConfig{
		TotalParents:     10,
		ModeSplit:        tanzeem.ModeSplit{Onsite: 5, Zone: 4, VanIntent: 1},
		FeeBaseline:      0,
		WarningThreshold: 3,
		RiskRoster:       []tanzeem.RiskParent{{Name: "Quiet", Warnings: 1}},
	}
	m := tanzeem.ComputeOpsMetrics(tanzeem.InitialState(), cfg)

	if len(m.RiskParents) != 0 {
		t.Errorf("riskParents = %+v, want none", m.RiskParents)
	}
	if m.ModeShare != (tanzeem.ModeSplit{Onsite: 50, Zone: 40, VanIntent: 10}) {
		t.Errorf("modeShare = %+v", m.ModeShare)
	}
}

func TestModeSplitShareRounds(t *testing.T) {
	got := tanzeem.ModeSplit{Onsite: 89, Zone: 142, VanIntent: 16}.Share(247)
	want := tanzeem.ModeSplit{Onsite: 36, Zone: 57, VanIntent: 6}
	if got != want {
		t.Errorf("Share = %+v, want %+v", got, want)
	}
	if got := (tanzeem.ModeSplit{Onsite: 1}).Share(0); got != (tanzeem.ModeSplit{}) {
		t.Errorf("Share(0) = %+v, want zero", got)
	}
}
