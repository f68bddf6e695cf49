package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"statement-analyzer/internal/core"
)

func TestEvaluateStatus(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		benchmark string
		want      core.Direction
	}{
		{name: "25% above benchmark", value: "2.50", benchmark: "2.00", want: core.DirectionUp},
		{name: "25% below benchmark", value: "1.50", benchmark: "2.00", want: core.DirectionDown},
		{name: "inside dead-band high", value: "2.09", benchmark: "2.00", want: core.DirectionNeutral},
		{name: "inside dead-band low", value: "1.91", benchmark: "2.00", want: core.DirectionNeutral},
		{name: "exactly at benchmark", value: "2.00", benchmark: "2.00", want: core.DirectionNeutral},
		{name: "near-zero value always neutral", value: "0.005", benchmark: "2.00", want: core.DirectionNeutral},
		{name: "zero value always neutral", value: "0", benchmark: "2.00", want: core.DirectionNeutral},
		{name: "near-zero negative neutral", value: "-0.009", benchmark: "0.5", want: core.DirectionNeutral},
		{name: "negative value below positive benchmark", value: "-1.5", benchmark: "1.00", want: core.DirectionDown},
		{name: "zero benchmark uses default 1", value: "2.00", benchmark: "0", want: core.DirectionUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.EvaluateStatus(decimal.RequireFromString(tt.value), decimal.RequireFromString(tt.benchmark))
			if got != tt.want {
				t.Errorf("EvaluateStatus(%s, %s) = %s, want %s", tt.value, tt.benchmark, got, tt.want)
			}
		})
	}
}

// Scenario: netProfitMargin 0 with revenue present is neutral, not "down".
func TestEvaluateStatus_ZeroMarginScenario(t *testing.T) {
	got := core.EvaluateStatus(decimal.Zero, decimal.RequireFromString("10"))
	if got != core.DirectionNeutral {
		t.Errorf("zero margin status = %s, want neutral", got)
	}
}

func TestComputeTrend(t *testing.T) {
	tests := []struct {
		name       string
		current    string
		previous   string
		want       core.Direction
		wantChange string // "" means sentinel expected
	}{
		{name: "identical values stable", current: "2.0", previous: "2.0", want: core.DirectionStable, wantChange: "0"},
		{name: "inside 1% band stable", current: "2.018", previous: "2.0", want: core.DirectionStable, wantChange: "0.9"},
		{name: "scenario -10%", current: "1.8", previous: "2.0", want: core.DirectionDown, wantChange: "-10"},
		{name: "growth", current: "2.4", previous: "2.0", want: core.DirectionUp, wantChange: "20"},
		{name: "both zero stable", current: "0", previous: "0", want: core.DirectionStable, wantChange: "0"},
		{name: "from zero upward sentinel", current: "1.5", previous: "0", want: core.DirectionUp, wantChange: ""},
		{name: "from zero downward sentinel", current: "-1.5", previous: "0", want: core.DirectionDown, wantChange: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ComputeTrend(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
			if got.Direction != tt.want {
				t.Errorf("direction = %s, want %s", got.Direction, tt.want)
			}
			if tt.wantChange == "" {
				if got.PercentageChange.Valid {
					t.Errorf("expected sentinel change, got %s", got.PercentageChange.Value)
				}
				return
			}
			if !got.PercentageChange.Valid {
				t.Fatal("expected valid percentage change")
			}
			if !got.PercentageChange.Value.Equal(decimal.RequireFromString(tt.wantChange)) {
				t.Errorf("change = %s, want %s", got.PercentageChange.Value, tt.wantChange)
			}
		})
	}
}

func TestComputeTrends_SkipsSentinels(t *testing.T) {
	current := core.FinancialRatios{
		Liquidity: core.RatioGroup{Values: map[string]core.Ratio{
			core.RatioCurrent: {Value: decimal.RequireFromString("1.8"), Valid: true},
			core.RatioQuick:   {Valid: false},
		}},
	}
	previous := core.FinancialRatios{
		Liquidity: core.RatioGroup{Values: map[string]core.Ratio{
			core.RatioCurrent: {Value: decimal.RequireFromString("2.0"), Valid: true},
			core.RatioQuick:   {Value: decimal.RequireFromString("1.0"), Valid: true},
		}},
	}

	trends := core.ComputeTrends(current, previous)
	tr, ok := trends[core.RatioCurrent]
	if !ok {
		t.Fatal("expected trend for currentRatio")
	}
	if tr.Direction != core.DirectionDown || !tr.PercentageChange.Value.Equal(decimal.RequireFromString("-10")) {
		t.Errorf("currentRatio trend = %+v, want down -10%%", tr)
	}
	if _, ok := trends[core.RatioQuick]; ok {
		t.Error("sentinel ratio must not produce a trend")
	}
}

func TestEvaluateStatuses_DefaultBenchmark(t *testing.T) {
	ratios := core.FinancialRatios{
		Efficiency: core.RatioGroup{Values: map[string]core.Ratio{
			core.RatioAssetTurnover: {Value: decimal.RequireFromString("1.5"), Valid: true},
		}},
	}

	// No benchmark configured: default 1 → 50% above → up.
	statuses := core.EvaluateStatuses(ratios, core.Benchmarks{})
	if statuses[core.RatioAssetTurnover] != core.DirectionUp {
		t.Errorf("status = %s, want up", statuses[core.RatioAssetTurnover])
	}
}
