package services

import (
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// BalanceValidator enforces the double-entry invariant and structural line
// constraints. It is pure and is invoked before every state-changing write:
// draft creation, line edits, posting, and reversal commits all pass through
// here rather than trusting earlier checks.
type BalanceValidator struct{}

// NewBalanceValidator creates a validator.
func NewBalanceValidator() *BalanceValidator {
	return &BalanceValidator{}
}

// Validate recomputes both totals and checks every invariant a postable
// voucher must hold. Tolerance is the smallest unit of the voucher's
// currency (10^-precision).
func (v *BalanceValidator) Validate(voucher domain.Voucher, lines []domain.VoucherLine, tolerance decimal.Decimal) error {
	if len(lines) < 2 {
		return ErrInsufficientLines
	}

	for i, line := range lines {
		if line.AccountID == "" {
			return &InvalidLineError{Index: i, Reason: "account id is required"}
		}
		if !accounting.LineIsWellFormed(line) {
			return &InvalidLineError{Index: i, Reason: "exactly one of debit or credit must be positive"}
		}
	}

	debits, credits := accounting.SumDebitsAndCredits(lines)
	if !accounting.IsBalanced(debits, credits, tolerance) {
		return &ImbalancedEntryError{DebitTotal: debits, CreditTotal: credits}
	}

	if !voucher.TotalAmount.Equal(debits) {
		return fmt.Errorf("%w: total amount %s does not equal debit total %s",
			ErrMalformedInput, voucher.TotalAmount.String(), debits.String())
	}

	return nil
}
