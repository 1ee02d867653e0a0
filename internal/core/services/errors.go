package services

import (
	"errors"
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedInput covers structurally invalid voucher input: a missing
	// account id, a bad debit/credit combination, or an unknown voucher type.
	ErrMalformedInput = fmt.Errorf("%w: malformed voucher input", apperrors.ErrValidation)

	// ErrInsufficientLines rejects vouchers with fewer than two lines.
	ErrInsufficientLines = fmt.Errorf("%w: voucher must have at least two lines", apperrors.ErrValidation)

	// ErrNotDraft rejects line edits on a voucher that has left DRAFT.
	ErrNotDraft = errors.New("voucher is not in draft status")

	// ErrAlreadyPosted rejects posting a voucher that is not in DRAFT.
	ErrAlreadyPosted = errors.New("voucher is already posted")

	// ErrNotPosted rejects reversing a voucher that never reached POSTED.
	ErrNotPosted = errors.New("voucher is not posted")

	// ErrAlreadyReversed rejects a second reversal of the same voucher, and
	// reversing a voucher that is itself a reversal.
	ErrAlreadyReversed = errors.New("voucher is already reversed")

	// ErrSequenceExhausted indicates the allocator could not issue a number,
	// typically because the scope's fiscal period is closed.
	ErrSequenceExhausted = errors.New("voucher number sequence unavailable")

	// ErrScopeClosed indicates the fiscal period of a sequence scope no longer
	// accepts postings.
	ErrScopeClosed = errors.New("fiscal period is closed for posting")
)

// ImbalancedEntryError reports a debit/credit mismatch beyond the currency's
// rounding tolerance, carrying both totals for the caller.
type ImbalancedEntryError struct {
	DebitTotal  decimal.Decimal
	CreditTotal decimal.Decimal
}

func (e *ImbalancedEntryError) Error() string {
	return fmt.Sprintf("voucher does not balance: debit total %s, credit total %s",
		e.DebitTotal.String(), e.CreditTotal.String())
}

// Unwrap lets errors.Is(err, apperrors.ErrValidation) match.
func (e *ImbalancedEntryError) Unwrap() error {
	return apperrors.ErrValidation
}

// InvalidLineError reports a line violating the debit-xor-credit rule or
// missing its account, carrying the offending index.
type InvalidLineError struct {
	Index  int
	Reason string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid voucher line at index %d: %s", e.Index, e.Reason)
}

// Unwrap lets errors.Is(err, apperrors.ErrValidation) match.
func (e *InvalidLineError) Unwrap() error {
	return apperrors.ErrValidation
}
