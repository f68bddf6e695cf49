package core

import "github.com/shopspring/decimal"

// Ratio keys. Margin/Return ratios are percentage-scaled by naming
// convention; all others are plain rational numbers.
const (
	RatioGrossProfitMargin = "grossProfitMargin"
	RatioNetProfitMargin   = "netProfitMargin"
	RatioReturnOnAssets    = "returnOnAssets"
	RatioReturnOnEquity    = "returnOnEquity"

	RatioCurrent = "currentRatio"
	RatioQuick   = "quickRatio"
	RatioCash    = "cashRatio"

	RatioAssetTurnover     = "assetTurnover"
	RatioInventoryTurnover = "inventoryTurnover"

	RatioDebt             = "debtRatio"
	RatioDebtToEquity     = "debtToEquity"
	RatioInterestCoverage = "interestCoverage"
)

var hundred = decimal.NewFromInt(100)

// divide computes num/den with the zero-denominator contract: a zero
// denominator yields an invalid sentinel ratio, never a runtime failure.
func divide(num, den decimal.Decimal) Ratio {
	if den.IsZero() {
		return Ratio{}
	}
	return Ratio{Value: num.Div(den), Valid: true}
}

// percent is divide scaled by 100, for Margin/Return ratios.
func percent(num, den decimal.Decimal) Ratio {
	r := divide(num, den)
	if r.Valid {
		r.Value = r.Value.Mul(hundred)
	}
	return r
}

// group assembles a RatioGroup, flagging it incomplete when any member
// carries the zero-denominator sentinel.
func group(values map[string]Ratio) RatioGroup {
	g := RatioGroup{Values: values}
	for _, r := range values {
		if !r.Valid {
			g.Incomplete = true
			break
		}
	}
	return g
}

// ComputeRatios derives the four ratio families from built statements.
// Formulas are fixed; every ratio follows the same zero-denominator policy.
// Average inventory is the period's closing inventory, since the input
// boundary carries a single period's statements.
func ComputeRatios(s Statements) FinancialRatios {
	bs := s.BalanceSheet
	is := s.IncomeStatement

	return FinancialRatios{
		Profitability: group(map[string]Ratio{
			RatioGrossProfitMargin: percent(is.GrossProfit, is.Revenue),
			RatioNetProfitMargin:   percent(is.NetIncome, is.Revenue),
			RatioReturnOnAssets:    percent(is.NetIncome, bs.TotalAssets),
			RatioReturnOnEquity:    percent(is.NetIncome, bs.TotalEquity),
		}),
		Liquidity: group(map[string]Ratio{
			RatioCurrent: divide(bs.CurrentAssets, bs.CurrentLiabilities),
			RatioQuick:   divide(bs.CurrentAssets.Sub(bs.Inventory), bs.CurrentLiabilities),
			RatioCash:    divide(bs.CashAndEquivalents, bs.CurrentLiabilities),
		}),
		Efficiency: group(map[string]Ratio{
			RatioAssetTurnover:     divide(is.Revenue, bs.TotalAssets),
			RatioInventoryTurnover: divide(is.CostOfGoodsSold, bs.Inventory),
		}),
		Leverage: group(map[string]Ratio{
			RatioDebt:             divide(bs.TotalLiabilities, bs.TotalAssets),
			RatioDebtToEquity:     divide(bs.TotalLiabilities, bs.TotalEquity),
			RatioInterestCoverage: divide(is.OperatingIncome, is.InterestExpense),
		}),
	}
}
