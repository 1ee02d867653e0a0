package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// VoucherLineInput carries one caller-supplied line. Exactly one of debit or
// credit must be strictly positive; the builder rejects anything else.
type VoucherLineInput struct {
	AccountID     string          `json:"accountID" binding:"required"`
	CostCenterID  *string         `json:"costCenterID,omitempty"`
	DepartmentID  *string         `json:"departmentID,omitempty"`
	PartnerID     *string         `json:"partnerID,omitempty"`
	BankAccountID *string         `json:"bankAccountID,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Notes         string          `json:"notes"`
}

// CreateVoucherRequest carries the data needed to build a DRAFT voucher.
type CreateVoucherRequest struct {
	VoucherType  domain.VoucherType `json:"voucherType" binding:"required,oneof=CASH BANK JOURNAL CONTRA"`
	CompanyID    string             `json:"companyID" binding:"required"`
	LocationID   string             `json:"locationID" binding:"required"`
	VoucherDate  *time.Time         `json:"voucherDate,omitempty"` // Defaults to today
	CurrencyCode string             `json:"currencyCode" binding:"required,uppercase,len=3"`
	ExchangeRate *decimal.Decimal   `json:"exchangeRate,omitempty"` // Defaults to 1
	Notes        string             `json:"notes"`
	Lines        []VoucherLineInput `json:"lines" binding:"required,min=2,dive"`
}

// UpdateVoucherLinesRequest replaces the full line set of a DRAFT voucher.
// Version is the header version the caller last read; a stale version fails
// with a conflict instead of silently overwriting a concurrent edit.
type UpdateVoucherLinesRequest struct {
	Version int64              `json:"version"`
	Lines   []VoucherLineInput `json:"lines" binding:"required,min=2,dive"`
}

// UpdateVoucherNotesRequest updates the free-text notes; allowed in any status.
type UpdateVoucherNotesRequest struct {
	Notes string `json:"notes"`
}

// ListVouchersParams narrows and paginates a voucher listing.
type ListVouchersParams struct {
	CompanyID   string             `form:"companyID" binding:"required"`
	LocationID  string             `form:"locationID"`
	VoucherType domain.VoucherType `form:"voucherType" binding:"omitempty,oneof=CASH BANK JOURNAL CONTRA"`
	DateFrom    *time.Time         `form:"dateFrom" time_format:"2006-01-02"`
	DateTo      *time.Time         `form:"dateTo" time_format:"2006-01-02"`
	Limit       int                `form:"limit"`
	NextToken   *string            `form:"nextToken"`
}

// VoucherLineResponse is the API representation of one line.
type VoucherLineResponse struct {
	LineID        string          `json:"lineID"`
	AccountID     string          `json:"accountID"`
	CostCenterID  *string         `json:"costCenterID,omitempty"`
	DepartmentID  *string         `json:"departmentID,omitempty"`
	PartnerID     *string         `json:"partnerID,omitempty"`
	BankAccountID *string         `json:"bankAccountID,omitempty"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Notes         string          `json:"notes"`
}

// VoucherResponse is the API representation of a voucher header, optionally
// with its lines.
type VoucherResponse struct {
	VoucherID     string                `json:"voucherID"`
	VoucherNumber string                `json:"voucherNumber,omitempty"`
	VoucherType   domain.VoucherType    `json:"voucherType"`
	CompanyID     string                `json:"companyID"`
	LocationID    string                `json:"locationID"`
	VoucherDate   time.Time             `json:"voucherDate"`
	CurrencyCode  string                `json:"currencyCode"`
	ExchangeRate  decimal.Decimal       `json:"exchangeRate"`
	Status        domain.VoucherStatus  `json:"status"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	Notes         string                `json:"notes"`
	ReversalOfID  *string               `json:"reversalOfID,omitempty"`
	ReversedByID  *string               `json:"reversedByID,omitempty"`
	Version       int64                 `json:"version"`
	CreatedAt     time.Time             `json:"createdAt"`
	CreatedBy     string                `json:"createdBy"`
	Lines         []VoucherLineResponse `json:"lines,omitempty"`
}

// ListVouchersResponse pairs a page of vouchers with the token for the next page.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherLineResponse converts a domain line to its API representation.
func ToVoucherLineResponse(line *domain.VoucherLine) VoucherLineResponse {
	return VoucherLineResponse{
		LineID:        line.LineID,
		AccountID:     line.AccountID,
		CostCenterID:  line.CostCenterID,
		DepartmentID:  line.DepartmentID,
		PartnerID:     line.PartnerID,
		BankAccountID: line.BankAccountID,
		Debit:         line.Debit,
		Credit:        line.Credit,
		Notes:         line.Notes,
	}
}

// ToVoucherResponse converts a domain voucher (and any loaded lines) to its
// API representation.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:     v.VoucherID,
		VoucherNumber: v.VoucherNumber,
		VoucherType:   v.VoucherType,
		CompanyID:     v.CompanyID,
		LocationID:    v.LocationID,
		VoucherDate:   v.VoucherDate,
		CurrencyCode:  v.CurrencyCode,
		ExchangeRate:  v.ExchangeRate,
		Status:        v.Status,
		TotalAmount:   v.TotalAmount,
		Notes:         v.Notes,
		ReversalOfID:  v.ReversalOfID,
		ReversedByID:  v.ReversedByID,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
	}
	if len(v.Lines) > 0 {
		resp.Lines = make([]VoucherLineResponse, len(v.Lines))
		for i := range v.Lines {
			resp.Lines[i] = ToVoucherLineResponse(&v.Lines[i])
		}
	}
	return resp
}
