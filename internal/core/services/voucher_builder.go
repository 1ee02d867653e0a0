package services

import (
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherBuilder assembles a candidate voucher from caller-supplied data.
// It is pure: no persistence happens here. Callers cannot construct anything
// but a DRAFT; posting is the state machine's job.
type VoucherBuilder struct {
	now func() time.Time
}

// NewVoucherBuilder creates a builder using the supplied clock for default dates.
func NewVoucherBuilder(now func() time.Time) *VoucherBuilder {
	if now == nil {
		now = time.Now
	}
	return &VoucherBuilder{now: now}
}

// Build constructs a DRAFT voucher header and its lines, applying defaults
// (date = today, exchange rate = 1) and rejecting structurally malformed input.
func (b *VoucherBuilder) Build(req dto.CreateVoucherRequest, creatorUserID string) (domain.Voucher, []domain.VoucherLine, error) {
	if !req.VoucherType.IsValid() {
		return domain.Voucher{}, nil, fmt.Errorf("%w: unknown voucher type %q", ErrMalformedInput, req.VoucherType)
	}
	if len(req.Lines) < 2 {
		return domain.Voucher{}, nil, ErrInsufficientLines
	}

	now := b.now().UTC()

	voucherDate := now
	if req.VoucherDate != nil {
		voucherDate = req.VoucherDate.UTC()
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != nil {
		if !req.ExchangeRate.IsPositive() {
			return domain.Voucher{}, nil, fmt.Errorf("%w: exchange rate must be positive", ErrMalformedInput)
		}
		exchangeRate = *req.ExchangeRate
	}

	voucherID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	lines, totalDebits, err := b.buildLines(voucherID, req.Lines, audit)
	if err != nil {
		return domain.Voucher{}, nil, err
	}

	voucher := domain.Voucher{
		VoucherID:    voucherID,
		VoucherType:  req.VoucherType,
		CompanyID:    req.CompanyID,
		LocationID:   req.LocationID,
		VoucherDate:  voucherDate,
		CurrencyCode: req.CurrencyCode,
		ExchangeRate: exchangeRate,
		Status:       domain.Draft, // Regardless of caller input
		TotalAmount:  totalDebits,
		Notes:        req.Notes,
		AuditFields:  audit,
	}
	return voucher, lines, nil
}

// BuildLines constructs the line set alone, for replacing a draft's lines.
// The returned total is the debit sum, which is the voucher's total amount.
func (b *VoucherBuilder) BuildLines(voucherID string, inputs []dto.VoucherLineInput, editorUserID string) ([]domain.VoucherLine, decimal.Decimal, error) {
	if len(inputs) < 2 {
		return nil, decimal.Zero, ErrInsufficientLines
	}
	now := b.now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     editorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: editorUserID,
	}
	lines, total, err := b.buildLines(voucherID, inputs, audit)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return lines, total, nil
}

func (b *VoucherBuilder) buildLines(voucherID string, inputs []dto.VoucherLineInput, audit domain.AuditFields) ([]domain.VoucherLine, decimal.Decimal, error) {
	lines := make([]domain.VoucherLine, len(inputs))
	totalDebits := decimal.Zero
	for i, in := range inputs {
		if in.AccountID == "" {
			return nil, decimal.Zero, &InvalidLineError{Index: i, Reason: "account id is required"}
		}
		line := domain.VoucherLine{
			LineID:        uuid.NewString(),
			VoucherID:     voucherID,
			AccountID:     in.AccountID,
			CostCenterID:  in.CostCenterID,
			DepartmentID:  in.DepartmentID,
			PartnerID:     in.PartnerID,
			BankAccountID: in.BankAccountID,
			Debit:         in.Debit,
			Credit:        in.Credit,
			Notes:         in.Notes,
			AuditFields:   audit,
		}
		if !accounting.LineIsWellFormed(line) {
			return nil, decimal.Zero, &InvalidLineError{Index: i, Reason: "exactly one of debit or credit must be positive"}
		}
		lines[i] = line
		totalDebits = totalDebits.Add(line.Debit)
	}
	return lines, totalDebits, nil
}
