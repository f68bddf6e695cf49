package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one raw account balance for a period, as received from the
// caller. Balance is a decimal string in the source ledger's own sign
// convention (debit-positive): not yet normalized for presentation.
type LedgerEntry struct {
	AccountCode int    `json:"account_code"`
	Balance     string `json:"balance"`
}

// StatementInput is the per-request ledger snapshot for one (company, period).
// The three sections carry the trial-balance rows backing each statement.
type StatementInput struct {
	BalanceSheet    []LedgerEntry `json:"balance_sheet"`
	IncomeStatement []LedgerEntry `json:"income_statement"`
	CashFlow        []LedgerEntry `json:"cash_flow"`
}

// ClassifiedAccount is a ledger entry after classification: the parsed
// balance plus the statement category, the independently classified
// cash-flow activity, and the natural balance side.
type ClassifiedAccount struct {
	AccountCode   int             `json:"account_code"`
	Balance       decimal.Decimal `json:"balance"`
	Category      CategoryPath    `json:"category"`
	Activity      Activity        `json:"activity,omitempty"`
	NormalBalance NormalBalance   `json:"normal_balance"`
}

// InputIssue records one malformed ledger entry that was excluded from the
// computation (non-numeric balance, missing account code).
type InputIssue struct {
	AccountCode int    `json:"account_code"`
	Reason      string `json:"reason"`
}

// ── Statements ────────────────────────────────────────────────────────────────

// LineItem is one named statement line: the signed sum of its member
// accounts after normal-balance sign normalization.
type LineItem struct {
	Path     CategoryPath    `json:"path"`
	Amount   decimal.Decimal `json:"amount"`
	Accounts int             `json:"accounts"`
}

// BalanceSheet is the built balance sheet. Contra-asset lines are normalized
// positive and subtracted from TotalAssets. UnclassifiedTotal is the raw sum of
// balance-sheet entries that matched no rule; it is excluded from all totals
// but never dropped, since its omission is exactly what the balance check
// must surface.
type BalanceSheet struct {
	Lines []LineItem `json:"lines"`

	TotalAssets        decimal.Decimal `json:"total_assets"`
	CurrentAssets      decimal.Decimal `json:"current_assets"`
	CashAndEquivalents decimal.Decimal `json:"cash_and_equivalents"`
	Inventory          decimal.Decimal `json:"inventory"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	CurrentLiabilities decimal.Decimal `json:"current_liabilities"`
	TotalEquity        decimal.Decimal `json:"total_equity"`

	UnclassifiedTotal decimal.Decimal `json:"unclassified_total"`

	// Imbalance = TotalAssets − (TotalLiabilities + TotalEquity).
	// Balanced is true when |Imbalance| <= ε. Never auto-corrected.
	Imbalance decimal.Decimal `json:"imbalance"`
	Balanced  bool            `json:"balanced"`
}

// IncomeStatement is the built income statement, revenue and expenses in
// their natural presentation sign (both positive under normal activity).
type IncomeStatement struct {
	Lines []LineItem `json:"lines"`

	Revenue           decimal.Decimal `json:"revenue"`
	CostOfGoodsSold   decimal.Decimal `json:"cost_of_goods_sold"`
	OperatingExpenses decimal.Decimal `json:"operating_expenses"`
	OtherIncome       decimal.Decimal `json:"other_income"`
	InterestExpense   decimal.Decimal `json:"interest_expense"`
	TaxExpense        decimal.Decimal `json:"tax_expense"`

	GrossProfit     decimal.Decimal `json:"gross_profit"`
	OperatingIncome decimal.Decimal `json:"operating_income"`
	NetIncome       decimal.Decimal `json:"net_income"`

	UnclassifiedTotal decimal.Decimal `json:"unclassified_total"`
}

// CashFlowStatement holds the activity totals, derived independently from
// the cash-flow dimension of the same classified-account set — not
// arithmetically from the other two statements.
type CashFlowStatement struct {
	Operating decimal.Decimal `json:"operating"`
	Investing decimal.Decimal `json:"investing"`
	Financing decimal.Decimal `json:"financing"`
	NetChange decimal.Decimal `json:"net_change"`

	UnclassifiedTotal decimal.Decimal `json:"unclassified_total"`
}

// Statements bundles the three built statements for one period.
type Statements struct {
	BalanceSheet    BalanceSheet      `json:"balance_sheet"`
	IncomeStatement IncomeStatement   `json:"income_statement"`
	CashFlow        CashFlowStatement `json:"cash_flow"`
}

// ── Ratios, statuses, trends ──────────────────────────────────────────────────

// Ratio is one computed ratio value. Valid is false when the denominator was
// zero or missing: the value is then a sentinel and the enclosing group is
// flagged incomplete so consumers can render "N/A" rather than "0%".
type Ratio struct {
	Value decimal.Decimal `json:"value"`
	Valid bool            `json:"valid"`
}

// RatioGroup is one category of ratios (profitability, liquidity,
// efficiency, leverage), a generic key→value container so the calculator
// and trend evaluator stay category-agnostic.
type RatioGroup struct {
	Values     map[string]Ratio `json:"values"`
	Incomplete bool             `json:"incomplete"`
}

// FinancialRatios holds the four fixed ratio groups for one period.
type FinancialRatios struct {
	Profitability RatioGroup `json:"profitability"`
	Liquidity     RatioGroup `json:"liquidity"`
	Efficiency    RatioGroup `json:"efficiency"`
	Leverage      RatioGroup `json:"leverage"`
}

// Groups returns the four groups keyed by group name, for category-agnostic
// iteration.
func (r *FinancialRatios) Groups() map[string]RatioGroup {
	return map[string]RatioGroup{
		"profitability": r.Profitability,
		"liquidity":     r.Liquidity,
		"efficiency":    r.Efficiency,
		"leverage":      r.Leverage,
	}
}

// Benchmarks maps ratio keys to externally supplied reference values.
// A missing key defaults to 1 during status evaluation.
type Benchmarks map[string]decimal.Decimal

// Direction classifies a ratio against its benchmark (up/down/neutral) or a
// period-over-period movement (up/down/stable).
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
	DirectionStable  Direction = "stable"
)

// TrendResult is the movement of one metric between two periods.
// PercentageChange is a sentinel (Valid=false) when the previous value was
// zero and the current is not: the direction is known, the magnitude is not.
type TrendResult struct {
	Direction        Direction `json:"direction"`
	PercentageChange Ratio     `json:"percentage_change"`
}

// ── Analysis record ───────────────────────────────────────────────────────────

// AnalysisStatus is the lifecycle state of an analysis record.
type AnalysisStatus string

const (
	StatusDraft AnalysisStatus = "draft"
	StatusFinal AnalysisStatus = "final"
)

// SchemaVersion is stamped on every assembled analysis record.
const SchemaVersion = 1

// Warning codes attached to an analysis record. These are contained,
// non-fatal conditions reported as structured metadata.
const (
	WarnClassificationGap  = "CLASSIFICATION_GAP"
	WarnStatementImbalance = "STATEMENT_IMBALANCE"
	WarnRatioIncomplete    = "RATIO_INCOMPLETE"
	WarnInputShape         = "INPUT_SHAPE"
)

// Warning is one non-fatal condition detected during analysis.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FinancialAnalysis is the assembled, immutable analysis record for one
// (company, period). Status transitions draft → final exactly once and is
// never reversed.
type FinancialAnalysis struct {
	CompanyCode string `json:"company_code"`
	Period      string `json:"period"` // ISO YYYY-MM

	Statements Statements      `json:"statements"`
	Ratios     FinancialRatios `json:"ratios"`

	// Statuses holds the benchmark comparison per ratio key.
	Statuses map[string]Direction `json:"statuses"`

	// Trends holds period-over-period movement per ratio key. Empty when no
	// previous period was available.
	Trends map[string]TrendResult `json:"trends,omitempty"`

	Warnings []Warning `json:"warnings,omitempty"`

	Status    AnalysisStatus `json:"status"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
