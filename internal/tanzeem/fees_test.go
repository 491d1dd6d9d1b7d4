package tanzeem_test

import (
	"testing"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		strike int
		want   tanzeem.Fee
	}{
		{1, tanzeem.Fee{Result: tanzeem.ResultWarning}},
		{2, tanzeem.Fee{Result: tanzeem.ResultWarning}},
		{3, tanzeem.Fee{Result: tanzeem.ResultWarning}},
		{4, tanzeem.Fee{Result: tanzeem.ResultFee, Amount: 20}},
		{5, tanzeem.Fee{Result: tanzeem.ResultFee, Amount: 40}},
		{7, tanzeem.Fee{Result: tanzeem.ResultFee, Amount: 80}},
		{103, tanzeem.Fee{Result: tanzeem.ResultFee, Amount: 2000}},
	}

	for _, tt := range tests {
		if got := tanzeem.CalculateFee(tt.strike); got != tt.want {
			t.Errorf("CalculateFee(%d) = %+v, want %+v", tt.strike, got, tt.want)
		}
	}
}

func TestCalculateFeeStrictlyIncreasing(t *testing.T) {
	prev := 0
	for strike := 4; strike <= 50; strike++ {
		fee := tanzeem.CalculateFee(strike)
		if fee.Amount <= prev {
			t.Fatalf("strike %d: amount %d not above previous %d", strike, fee.Amount, prev)
		}
		if fee.Amount != (strike-3)*20 {
			t.Fatalf("strike %d: amount = %d, want %d", strike, fee.Amount, (strike-3)*20)
		}
		prev = fee.Amount
	}
}

func TestNextFee(t *testing.T) {
	tests := []struct {
		count      int
		wantLabel  string
		wantAmount int
	}{
		{0, "Warning 1/3", 0},
		{2, "Warning 3/3", 0},
		{3, "AED 20 fee", 20},
		{4, "AED 40 fee", 40},
	}

	for _, tt := range tests {
		got := tanzeem.NextFee(tt.count)
		if got.Label != tt.wantLabel || got.Amount != tt.wantAmount {
			t.Errorf("NextFee(%d) = %+v, want label %q amount %d", tt.count, got, tt.wantLabel, tt.wantAmount)
		}
		if want := tanzeem.CalculateFee(tt.count + 1).Amount; got.Amount != want {
			t.Errorf("NextFee(%d) amount %d disagrees with CalculateFee %d", tt.count, got.Amount, want)
		}
	}
}

func TestFeeLadder(t *testing.T) {
	ladder := tanzeem.FeeLadder(7)
	wantLabels := []string{"Warning 1", "Warning 2", "Warning 3", "AED 20", "AED 40", "AED 60", "AED 80"}

	if len(ladder) != len(wantLabels) {
		t.Fatalf("len = %d, want %d", len(ladder), len(wantLabels))
	}
	for i, tier := range ladder {
		if tier.Label != wantLabels[i] {
			t.Errorf("tier %d label = %q, want %q", i+1, tier.Label, wantLabels[i])
		}
		if tier.IsFee != (i >= 3) {
			t.Errorf("tier %d isFee = %v", i+1, tier.IsFee)
		}
	}

	if got := tanzeem.FeeLadder(0); len(got) != 0 {
		t.Errorf("FeeLadder(0) = %v, want empty", got)
	}
}
