package tanzeem

import "math"

type ModeSplit struct {
	Onsite    int `json:"onsite"`
	Zone      int `json:"zone"`
	VanIntent int `json:"vanIntent"`
}

// Share returns each mode as a whole percentage of total.
func (m ModeSplit) Share(total int) ModeSplit {
	if total <= 0 {
		return ModeSplit{}
	}
	pct := func(n int) int { return int(math.Round(float64(n) / float64(total) * 100)) }
	return ModeSplit{Onsite: pct(m.Onsite), Zone: pct(m.Zone), VanIntent: pct(m.VanIntent)}
}

type RiskParent struct {
	Name     string `json:"name"`
	Warnings int    `json:"warnings"`
	Fees     int    `json:"fees"`
}

// OpsConfig holds the simulated pilot population the dashboard reports
// alongside the live family. None of it is derived from state.
type OpsConfig struct {
	TotalParents     int          `json:"totalParents"`
	ModeSplit        ModeSplit    `json:"modeSplit"`
	AvgOverruns      float64      `json:"avgOverruns"`
	FeeBaseline      int          `json:"feeBaseline"`
	WarningThreshold int          `json:"warningThreshold"`
	RiskRoster       []RiskParent `json:"riskRoster"`
}

// DefaultOpsConfig returns the pilot figures used by the demo dashboard.
func DefaultOpsConfig() OpsConfig {
	return OpsConfig{
		TotalParents:     247,
		ModeSplit:        ModeSplit{Onsite: 89, Zone: 142, VanIntent: 16},
		AvgOverruns:      1.3,
		FeeBaseline:      1240,
		WarningThreshold: 3,
		RiskRoster: []RiskParent{
			{Name: "Mohammed A.", Warnings: 3, Fees: 60},
			{Name: "Fatima K.", Warnings: 4, Fees: 20},
			{Name: "Ali H.", Warnings: 3, Fees: 0},
		},
	}
}

type OpsMetrics struct {
	TotalParents int          `json:"totalParents"`
	ModeSplit    ModeSplit    `json:"modeSplit"`
	ModeShare    ModeSplit    `json:"modeShare"`
	AvgOverruns  float64      `json:"avgOverruns"`
	TotalFees    int          `json:"totalFees"`
	RiskParents  []RiskParent `json:"riskParents"`
}

// ComputeOpsMetrics aggregates the dashboard figures. Only TotalFees and the
// live family's risk row depend on state.
func ComputeOpsMetrics(state AppState, cfg OpsConfig) OpsMetrics {
	fees := state.FeesTotal()

	warnings := 0
	if state.OverrunCount >= cfg.WarningThreshold {
		warnings = state.OverrunCount
	}

	candidates := make([]RiskParent, 0, len(cfg.RiskRoster)+1)
	candidates = append(candidates, RiskParent{Name: state.ParentName, Warnings: warnings, Fees: fees})
	candidates = append(candidates, cfg.RiskRoster...)

	risk := []RiskParent{}
	for _, p := range candidates {
		if p.Warnings >= cfg.WarningThreshold || p.Fees > 0 {
			risk = append(risk, p)
		}
	}

	return OpsMetrics{
		TotalParents: cfg.TotalParents,
		ModeSplit:    cfg.ModeSplit,
		ModeShare:    cfg.ModeSplit.Share(cfg.TotalParents),
		AvgOverruns:  cfg.AvgOverruns,
		TotalFees:    fees + cfg.FeeBaseline,
		RiskParents:  risk,
	}
}
