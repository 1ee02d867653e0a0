package accounting

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SumDebitsAndCredits totals both sides of a line set.
func SumDebitsAndCredits(lines []domain.VoucherLine) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}
	return debits, credits
}

// IsBalanced reports whether debits and credits agree within tolerance.
// Tolerance is the smallest unit of the voucher's currency.
func IsBalanced(debits, credits, tolerance decimal.Decimal) bool {
	return debits.Sub(credits).Abs().LessThanOrEqual(tolerance)
}

// LineIsWellFormed reports whether exactly one of debit/credit is strictly
// positive and the other exactly zero, with neither negative.
func LineIsWellFormed(line domain.VoucherLine) bool {
	if line.Debit.IsNegative() || line.Credit.IsNegative() {
		return false
	}
	debitSet := line.Debit.IsPositive()
	creditSet := line.Credit.IsPositive()
	if debitSet == creditSet {
		return false // both zero or both positive
	}
	if debitSet && !line.Credit.IsZero() {
		return false
	}
	if creditSet && !line.Debit.IsZero() {
		return false
	}
	return true
}

// SignedAmount applies the accounting sign convention to a line for balance
// reporting purposes: debits increase assets/expenses, credits increase
// liabilities/equity/revenue.
func SignedAmount(line domain.VoucherLine, accountType domain.AccountType) decimal.Decimal {
	amount := line.Debit.Sub(line.Credit)
	switch accountType {
	case domain.Asset, domain.Expense:
		return amount
	case domain.Liability, domain.Equity, domain.Revenue:
		return amount.Neg()
	default:
		return amount
	}
}
