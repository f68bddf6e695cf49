package core

import "github.com/shopspring/decimal"

// balanceTolerance is the ε for the Assets = Liabilities + Equity check.
var balanceTolerance = decimal.NewFromFloat(0.01)

// Aggregate path prefixes. The default UzNAS chart follows these conventions;
// custom charts must keep the same top segments for the aggregates to resolve.
const (
	prefixCash         CategoryPath = "assets.cash"
	prefixShortTermInv CategoryPath = "assets.shortTermInvestments"
	prefixReceivables  CategoryPath = "assets.receivables"
	prefixInventory    CategoryPath = "assets.inventory"
	prefixCurrentLiab  CategoryPath = "liabilities.current"
	prefixSalesRevenue CategoryPath = "revenue.sales"
	prefixOtherIncome  CategoryPath = "revenue.other"
	prefixCOGS         CategoryPath = "expenses.costOfGoodsSold"
	prefixOperatingExp CategoryPath = "expenses.operating"
	prefixInterestExp  CategoryPath = "expenses.interest"
	prefixTaxExp       CategoryPath = "expenses.tax"
)

// normalized returns the account balance in presentation sign: raw balances
// are debit-positive, so debit-normal categories keep the sign and
// credit-normal categories flip it. After normalization every account in its
// natural balance position carries a positive amount.
func normalized(a ClassifiedAccount) decimal.Decimal {
	if a.NormalBalance == CreditNormal {
		return a.Balance.Neg()
	}
	return a.Balance
}

// lineAggregator accumulates per-path line items in first-seen order.
type lineAggregator struct {
	order []CategoryPath
	lines map[CategoryPath]*LineItem
}

func newLineAggregator() *lineAggregator {
	return &lineAggregator{lines: make(map[CategoryPath]*LineItem)}
}

func (g *lineAggregator) add(path CategoryPath, amount decimal.Decimal) {
	li, ok := g.lines[path]
	if !ok {
		li = &LineItem{Path: path}
		g.lines[path] = li
		g.order = append(g.order, path)
	}
	li.Amount = li.Amount.Add(amount)
	li.Accounts++
}

func (g *lineAggregator) items() []LineItem {
	out := make([]LineItem, 0, len(g.order))
	for _, p := range g.order {
		out = append(out, *g.lines[p])
	}
	return out
}

func (g *lineAggregator) sumPrefix(prefix CategoryPath) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range g.order {
		if p.HasPrefix(prefix) {
			sum = sum.Add(g.lines[p].Amount)
		}
	}
	return sum
}

func (g *lineAggregator) sumCategory(c Category) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range g.order {
		if p.Category() == c {
			sum = sum.Add(g.lines[p].Amount)
		}
	}
	return sum
}

// BuildStatements aggregates classified accounts into the three statement
// shapes. Each section of the input feeds its own statement; an account that
// matched no rule (or a rule from a different statement's dimension) lands in
// that statement's UnclassifiedTotal rather than vanishing, so the balance
// check can surface the gap.
func BuildStatements(balanceSheet, incomeStatement, cashFlow []ClassifiedAccount) Statements {
	return Statements{
		BalanceSheet:    buildBalanceSheet(balanceSheet),
		IncomeStatement: buildIncomeStatement(incomeStatement),
		CashFlow:        buildCashFlow(cashFlow),
	}
}

func buildBalanceSheet(accounts []ClassifiedAccount) BalanceSheet {
	agg := newLineAggregator()
	unclassified := decimal.Zero

	for _, a := range accounts {
		switch a.Category.Category() {
		case CategoryAssets, CategoryContraAssets, CategoryLiabilities, CategoryEquity:
			agg.add(a.Category, normalized(a))
		default:
			// Unclassified, or an income-statement code fed into the
			// balance-sheet section: tracked, never summed into totals.
			unclassified = unclassified.Add(a.Balance)
		}
	}

	bs := BalanceSheet{
		Lines:              agg.items(),
		CashAndEquivalents: agg.sumPrefix(prefixCash),
		Inventory:          agg.sumPrefix(prefixInventory),
		TotalLiabilities:   agg.sumCategory(CategoryLiabilities),
		CurrentLiabilities: agg.sumPrefix(prefixCurrentLiab),
		TotalEquity:        agg.sumCategory(CategoryEquity),
		UnclassifiedTotal:  unclassified,
	}
	bs.CurrentAssets = bs.CashAndEquivalents.
		Add(agg.sumPrefix(prefixShortTermInv)).
		Add(agg.sumPrefix(prefixReceivables)).
		Add(bs.Inventory)
	// Contra assets are normalized positive (credit-normal) and reduce assets.
	bs.TotalAssets = agg.sumCategory(CategoryAssets).Sub(agg.sumCategory(CategoryContraAssets))

	bs.Imbalance = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.Balanced = bs.Imbalance.Abs().LessThanOrEqual(balanceTolerance)
	return bs
}

func buildIncomeStatement(accounts []ClassifiedAccount) IncomeStatement {
	agg := newLineAggregator()
	unclassified := decimal.Zero

	for _, a := range accounts {
		switch a.Category.Category() {
		case CategoryRevenue, CategoryExpenses:
			agg.add(a.Category, normalized(a))
		default:
			unclassified = unclassified.Add(a.Balance)
		}
	}

	is := IncomeStatement{
		Lines:             agg.items(),
		Revenue:           agg.sumPrefix(prefixSalesRevenue),
		CostOfGoodsSold:   agg.sumPrefix(prefixCOGS),
		OperatingExpenses: agg.sumPrefix(prefixOperatingExp),
		OtherIncome:       agg.sumPrefix(prefixOtherIncome),
		InterestExpense:   agg.sumPrefix(prefixInterestExp),
		TaxExpense:        agg.sumPrefix(prefixTaxExp),
		UnclassifiedTotal: unclassified,
	}
	is.GrossProfit = is.Revenue.Sub(is.CostOfGoodsSold)
	is.OperatingIncome = is.GrossProfit.Sub(is.OperatingExpenses)
	is.NetIncome = is.OperatingIncome.Add(is.OtherIncome).Sub(is.InterestExpense).Sub(is.TaxExpense)
	return is
}

// buildCashFlow sums period movements into activity totals using the
// independent cash-flow dimension. Movement sign follows the source feed
// (positive = inflow), so raw balances are summed as-is.
func buildCashFlow(accounts []ClassifiedAccount) CashFlowStatement {
	cf := CashFlowStatement{}
	for _, a := range accounts {
		switch a.Activity {
		case ActivityOperating:
			cf.Operating = cf.Operating.Add(a.Balance)
		case ActivityInvesting:
			cf.Investing = cf.Investing.Add(a.Balance)
		case ActivityFinancing:
			cf.Financing = cf.Financing.Add(a.Balance)
		default:
			cf.UnclassifiedTotal = cf.UnclassifiedTotal.Add(a.Balance)
		}
	}
	cf.NetChange = cf.Operating.Add(cf.Investing).Add(cf.Financing)
	return cf
}
