package tanzeem

import "fmt"

const (
	// FreeWarnings is the number of overruns that only earn a warning.
	FreeWarnings = 3
	// FeeStep is the AED amount each overrun past the warnings adds to the fee.
	FeeStep = 20
)

type Fee struct {
	Result OverrunResult `json:"result"`
	Amount int           `json:"amount,omitempty"`
}

// CalculateFee maps the 1-based strike number of an overrun to its outcome:
// strikes 1-3 are warnings, the 4th costs 20 and every later one 20 more.
func CalculateFee(strike int) Fee {
	if strike <= FreeWarnings {
		return Fee{Result: ResultWarning}
	}
	return Fee{Result: ResultFee, Amount: (strike - FreeWarnings) * FeeStep}
}

type FeePreview struct {
	Strike int    `json:"strike"`
	Label  string `json:"label"`
	Amount int    `json:"amount,omitempty"`
}

// NextFee previews what the next overrun would cost given the current count.
func NextFee(overrunCount int) FeePreview {
	next := overrunCount + 1
	fee := CalculateFee(next)
	if fee.Result == ResultWarning {
		return FeePreview{Strike: next, Label: fmt.Sprintf("Warning %d/%d", next, FreeWarnings)}
	}
	return FeePreview{Strike: next, Label: fmt.Sprintf("AED %d fee", fee.Amount), Amount: fee.Amount}
}

type FeeTier struct {
	Strike int    `json:"overrun"`
	Label  string `json:"label"`
	IsFee  bool   `json:"isFee"`
}

// FeeLadder lists the first n strikes as shown on the on-site screen.
func FeeLadder(n int) []FeeTier {
	tiers := make([]FeeTier, 0, max(n, 0))
	for strike := 1; strike <= n; strike++ {
		fee := CalculateFee(strike)
		t := FeeTier{Strike: strike, IsFee: fee.Result == ResultFee}
		if t.IsFee {
			t.Label = fmt.Sprintf("AED %d", fee.Amount)
		} else {
			t.Label = fmt.Sprintf("Warning %d", strike)
		}
		tiers = append(tiers, t)
	}
	return tiers
}
