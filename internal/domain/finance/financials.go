package finance

import "github.com/shopspring/decimal"

// reportScale is the number of decimal places on every reported figure
const reportScale = 2

var hundred = decimal.NewFromInt(100)

// quantize rounds to two places, ties away from zero
func quantize(v decimal.Decimal) decimal.Decimal {
	return v.Round(reportScale)
}

// FinancialInput carries everything the profitability calculation needs.
// Revenue and COGS come from closed deals, the expense totals from the
// expense ledger. The manual fields are caller-supplied what-if overrides
// and default to zero (or absent, for variable costs).
type FinancialInput struct {
	Revenue  decimal.Decimal
	COGS     decimal.Decimal
	Expenses ExpenseTotals
	TaxRate  decimal.Decimal

	ManualOpex     decimal.Decimal
	ManualFixed    decimal.Decimal
	ManualVariable *decimal.Decimal
}

// FinancialReport is the full profitability picture for a period
type FinancialReport struct {
	Revenue          decimal.Decimal  `json:"revenue"`
	COGS             decimal.Decimal  `json:"cogs"`
	GrossProfit      decimal.Decimal  `json:"gross_profit"`
	GrossMarginPct   decimal.Decimal  `json:"gross_margin_pct"`
	Opex             decimal.Decimal  `json:"opex"`
	EBIT             decimal.Decimal  `json:"ebit"`
	TaxRate          decimal.Decimal  `json:"taxes_percent"`
	Taxes            decimal.Decimal  `json:"taxes"`
	TotalExpenses    decimal.Decimal  `json:"total_expenses"`
	NetProfit        decimal.Decimal  `json:"net_profit"`
	NetMarginPct     decimal.Decimal  `json:"net_margin_pct"`
	FixedCosts       decimal.Decimal  `json:"fixed_costs"`
	VariableCosts    decimal.Decimal  `json:"variable_costs"`
	BreakEvenRevenue *decimal.Decimal `json:"break_even_revenue"`
}

// ComputeFinancials derives the profitability report from aggregated inputs.
//
// Taxes apply only to positive EBIT. The displayed total expenses add the
// manual fixed override on top of opex even though it also feeds the
// break-even fixed base; callers using the override see it in both places.
// Break-even revenue is nil when there is no revenue or when the
// contribution margin is not positive.
func ComputeFinancials(in FinancialInput) FinancialReport {
	revenue := in.Revenue
	cogs := in.COGS

	grossProfit := quantize(revenue.Sub(cogs))
	grossMarginPct := decimal.Zero
	if revenue.GreaterThan(decimal.Zero) {
		grossMarginPct = grossProfit.Div(revenue).Mul(hundred)
	}
	grossMarginPct = quantize(grossMarginPct)

	totalOpex := in.ManualOpex.Add(in.Expenses.Total())
	ebit := quantize(grossProfit.Sub(totalOpex))

	taxes := decimal.Zero
	if ebit.GreaterThan(decimal.Zero) && in.TaxRate.GreaterThan(decimal.Zero) {
		taxes = quantize(ebit.Mul(in.TaxRate).Div(hundred))
	}

	totalExpenses := quantize(cogs.Add(totalOpex).Add(in.ManualFixed))

	netProfit := quantize(revenue.Sub(totalExpenses).Sub(taxes))
	netMarginPct := decimal.Zero
	if revenue.GreaterThan(decimal.Zero) {
		netMarginPct = netProfit.Div(revenue).Mul(hundred)
	}
	netMarginPct = quantize(netMarginPct)

	totalFixed := in.ManualFixed.Add(in.Expenses.Fixed)
	totalVariable := cogs.Add(in.Expenses.Variable)
	if in.ManualVariable != nil {
		totalVariable = *in.ManualVariable
	}

	var breakEven *decimal.Decimal
	if revenue.GreaterThan(decimal.Zero) {
		contribution := revenue.Sub(totalVariable)
		if contribution.GreaterThan(decimal.Zero) {
			be := quantize(totalFixed.Div(contribution.Div(revenue)))
			breakEven = &be
		}
	}

	return FinancialReport{
		Revenue:          quantize(revenue),
		COGS:             quantize(cogs),
		GrossProfit:      grossProfit,
		GrossMarginPct:   grossMarginPct,
		Opex:             quantize(totalOpex),
		EBIT:             ebit,
		TaxRate:          in.TaxRate,
		Taxes:            taxes,
		TotalExpenses:    totalExpenses,
		NetProfit:        netProfit,
		NetMarginPct:     netMarginPct,
		FixedCosts:       quantize(totalFixed),
		VariableCosts:    quantize(totalVariable),
		BreakEvenRevenue: breakEven,
	}
}
