package core

import "github.com/shopspring/decimal"

var (
	// nearZero: values below this magnitude are not meaningfully above or
	// below any benchmark.
	nearZero = decimal.NewFromFloat(0.01)

	// statusDeadBand is the ±5% band around a benchmark inside which the
	// status is forced neutral to suppress noise.
	statusDeadBand = decimal.NewFromInt(5)

	// trendDeadBand is the ±1% band for period-over-period movement —
	// tighter than the benchmark band, since period noise is smaller.
	trendDeadBand = decimal.NewFromInt(1)
)

// defaultBenchmark is used when no benchmark is configured for a ratio.
var defaultBenchmark = decimal.NewFromInt(1)

// EvaluateStatus classifies a value against a benchmark. Near-zero values
// are neutral regardless of benchmark; otherwise the percentage difference
// is computed and the ±5% dead-band applies.
func EvaluateStatus(value, benchmark decimal.Decimal) Direction {
	if value.Abs().LessThan(nearZero) {
		return DirectionNeutral
	}
	if benchmark.IsZero() {
		benchmark = defaultBenchmark
	}
	diff := value.Sub(benchmark).Div(benchmark).Mul(hundred)
	if diff.Abs().LessThan(statusDeadBand) {
		return DirectionNeutral
	}
	if diff.IsPositive() {
		return DirectionUp
	}
	return DirectionDown
}

// EvaluateStatuses compares every valid ratio against its configured
// benchmark (default 1 when absent) and returns a flat status map keyed by
// ratio key. Sentinel ratios get no status.
func EvaluateStatuses(ratios FinancialRatios, benchmarks Benchmarks) map[string]Direction {
	statuses := make(map[string]Direction)
	for _, g := range ratios.Groups() {
		for key, r := range g.Values {
			if !r.Valid {
				continue
			}
			bench, ok := benchmarks[key]
			if !ok {
				bench = defaultBenchmark
			}
			statuses[key] = EvaluateStatus(r.Value, bench)
		}
	}
	return statuses
}

// ComputeTrend classifies the movement between two period snapshots of one
// metric. When previous is zero and current is not, the direction follows
// the sign of current and the magnitude is a sentinel — the division is
// never computed.
func ComputeTrend(current, previous decimal.Decimal) TrendResult {
	if previous.IsZero() {
		if current.IsZero() {
			return TrendResult{Direction: DirectionStable, PercentageChange: Ratio{Valid: true}}
		}
		dir := DirectionUp
		if current.IsNegative() {
			dir = DirectionDown
		}
		return TrendResult{Direction: dir}
	}

	change := current.Sub(previous).Div(previous).Mul(hundred)
	dir := DirectionStable
	switch {
	case change.Abs().LessThan(trendDeadBand):
		dir = DirectionStable
	case change.IsPositive():
		dir = DirectionUp
	default:
		dir = DirectionDown
	}
	return TrendResult{Direction: dir, PercentageChange: Ratio{Value: change, Valid: true}}
}

// ComputeTrends evaluates period-over-period movement for every ratio key
// present and valid in both snapshots.
func ComputeTrends(current, previous FinancialRatios) map[string]TrendResult {
	prev := make(map[string]Ratio)
	for _, g := range previous.Groups() {
		for key, r := range g.Values {
			prev[key] = r
		}
	}

	trends := make(map[string]TrendResult)
	for _, g := range current.Groups() {
		for key, r := range g.Values {
			p, ok := prev[key]
			if !ok || !r.Valid || !p.Valid {
				continue
			}
			trends[key] = ComputeTrend(r.Value, p.Value)
		}
	}
	return trends
}
