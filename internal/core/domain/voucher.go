package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies a voucher by the kind of money movement it records.
type VoucherType string

const (
	CashVoucher    VoucherType = "CASH"
	BankVoucher    VoucherType = "BANK"
	JournalVoucher VoucherType = "JOURNAL"
	ContraVoucher  VoucherType = "CONTRA"
)

// VoucherStatus indicates where a voucher is in its lifecycle.
// Transitions are monotonic: DRAFT -> POSTED -> REVERSED.
type VoucherStatus string

const (
	Draft    VoucherStatus = "DRAFT"
	Posted   VoucherStatus = "POSTED"
	Reversed VoucherStatus = "REVERSED"
)

// Voucher is the header of a double-entry transaction document.
// Only a DRAFT voucher's lines may change; once POSTED the header and lines
// are immutable except Notes. TotalAmount always equals the sum of line debits.
type Voucher struct {
	VoucherID     string          `json:"voucherID"`     // Primary key (UUID)
	VoucherNumber string          `json:"voucherNumber"` // Scoped-unique, assigned at post time; empty on drafts
	VoucherType   VoucherType     `json:"voucherType"`
	CompanyID     string          `json:"companyID"`
	LocationID    string          `json:"locationID"`
	VoucherDate   time.Time       `json:"voucherDate"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"` // 1 for the base currency
	Status        VoucherStatus   `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Notes         string          `json:"notes"` // The only field mutable after posting
	ReversalOfID  *string         `json:"reversalOfID,omitempty"`  // Set on a reversal voucher, points at its original
	ReversedByID  *string         `json:"reversedByID,omitempty"`  // Set on the original once its reversal posts
	Version       int64           `json:"version"`                 // Optimistic concurrency check for draft mutations
	AuditFields
	Lines []VoucherLine `json:"lines,omitempty"` // Often loaded separately
}

// IsReversal reports whether this voucher was created to cancel another one.
func (v *Voucher) IsReversal() bool {
	return v.ReversalOfID != nil
}

// VoucherLine is one debit-or-credit entry within a voucher.
// Exactly one of Debit/Credit is strictly positive; the other is zero.
type VoucherLine struct {
	LineID        string          `json:"lineID"`    // Primary key (UUID)
	VoucherID     string          `json:"voucherID"` // Owning voucher
	AccountID     string          `json:"accountID"` // Reference into the chart of accounts
	CostCenterID  *string         `json:"costCenterID,omitempty"`
	DepartmentID  *string         `json:"departmentID,omitempty"`
	PartnerID     *string         `json:"partnerID,omitempty"`
	BankAccountID *string         `json:"bankAccountID,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Notes         string          `json:"notes"`
	AuditFields
}

// SequenceScope identifies one independent voucher numbering sequence.
type SequenceScope struct {
	CompanyID   string      `json:"companyID"`
	LocationID  string      `json:"locationID"`
	VoucherType VoucherType `json:"voucherType"`
	PeriodCode  string      `json:"periodCode"` // Fiscal period, e.g. "2026-08"
}

// numberPrefixes maps each voucher type to the prefix used in voucher numbers.
var numberPrefixes = map[VoucherType]string{
	CashVoucher:    "CV",
	BankVoucher:    "BV",
	JournalVoucher: "JV",
	ContraVoucher:  "XV",
}

// NumberPrefix returns the voucher-number prefix for a type, or "VV" for unknown types.
func (t VoucherType) NumberPrefix() string {
	if p, ok := numberPrefixes[t]; ok {
		return p
	}
	return "VV"
}

// IsValid reports whether t is one of the four known voucher types.
func (t VoucherType) IsValid() bool {
	_, ok := numberPrefixes[t]
	return ok
}
