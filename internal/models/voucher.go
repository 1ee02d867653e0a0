package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType classifies a voucher by the kind of money movement it records.
type VoucherType string

// VoucherStatus indicates where a voucher is in its lifecycle.
type VoucherStatus string

// Voucher is the database representation of a voucher header.
type Voucher struct {
	VoucherID     string          `json:"voucherID" db:"voucher_id"`
	VoucherNumber string          `json:"voucherNumber" db:"voucher_number"` // Empty on drafts
	VoucherType   VoucherType     `json:"voucherType" db:"voucher_type"`
	CompanyID     string          `json:"companyID" db:"company_id"`
	LocationID    string          `json:"locationID" db:"location_id"`
	VoucherDate   time.Time       `json:"voucherDate" db:"voucher_date"`
	CurrencyCode  string          `json:"currencyCode" db:"currency_code"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate" db:"exchange_rate"`
	Status        VoucherStatus   `json:"status" db:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Notes         string          `json:"notes" db:"notes"`
	ReversalOfID  *string         `json:"reversalOfID,omitempty" db:"reversal_of_id"`
	ReversedByID  *string         `json:"reversedByID,omitempty" db:"reversed_by_id"`
	Version       int64           `json:"version" db:"version"` // Optimistic lock counter
	AuditFields
}

// VoucherLine is the database representation of one debit-or-credit entry.
type VoucherLine struct {
	LineID        string          `json:"lineID" db:"line_id"`
	VoucherID     string          `json:"voucherID" db:"voucher_id"`
	AccountID     string          `json:"accountID" db:"account_id"`
	CostCenterID  *string         `json:"costCenterID,omitempty" db:"cost_center_id"`
	DepartmentID  *string         `json:"departmentID,omitempty" db:"department_id"`
	PartnerID     *string         `json:"partnerID,omitempty" db:"partner_id"`
	BankAccountID *string         `json:"bankAccountID,omitempty" db:"bank_account_id"`
	Debit         decimal.Decimal `json:"debit" db:"debit"`
	Credit        decimal.Decimal `json:"credit" db:"credit"`
	Notes         string          `json:"notes" db:"notes"`
	AuditFields
}
