package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// ReverseVoucher derives the inverse of a POSTED voucher and posts it
// immediately: every line's debit and credit swap, dimensions stay identical,
// and the two vouchers cross-link. The reversal insert and the original's
// transition to REVERSED happen in one repository transaction, so REVERSED is
// only ever reachable together with a successfully posted twin.
//
// A reversal cannot itself be reversed, and an original can only be reversed
// once; both cases fail with ErrAlreadyReversed.
func (s *voucherService) ReverseVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: voucher %s is itself a reversal", ErrAlreadyReversed, voucherID)
	}
	if original.Status == domain.Draft {
		return nil, fmt.Errorf("%w: voucher %s is still a draft", ErrNotPosted, voucherID)
	}
	if original.Status == domain.Reversed || original.ReversedByID != nil {
		return nil, fmt.Errorf("%w: voucher %s", ErrAlreadyReversed, voucherID)
	}

	originalLines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for voucher %s: %w", voucherID, err)
	}

	// The reversal goes through the same builder + validator path as a fresh
	// voucher; nothing bypasses the balance check.
	req := dto.CreateVoucherRequest{
		VoucherType:  original.VoucherType,
		CompanyID:    original.CompanyID,
		LocationID:   original.LocationID,
		CurrencyCode: original.CurrencyCode,
		ExchangeRate: &original.ExchangeRate,
		Notes:        fmt.Sprintf("Reversal of voucher %s", original.VoucherID),
		Lines:        swappedLineInputs(originalLines),
	}
	reversal, reversalLines, err := s.builder.Build(req, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to build reversal voucher: %w", err)
	}
	reversal.ReversalOfID = &original.VoucherID

	tolerance, err := s.toleranceFor(ctx, reversal.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(reversal, reversalLines, tolerance); err != nil {
		return nil, err
	}

	// Reversals are created already posted; allocate their number up front.
	// The reversal is dated today, so its number belongs to today's period.
	period, err := s.periodSvc.ResolveForDate(ctx, reversal.CompanyID, reversal.VoucherDate, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	scope := domain.SequenceScope{
		CompanyID:   reversal.CompanyID,
		LocationID:  reversal.LocationID,
		VoucherType: reversal.VoucherType,
		PeriodCode:  period.PeriodCode,
	}
	number, err := s.sequenceSvc.Next(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSequenceExhausted, err)
	}
	reversal.Status = domain.Posted
	reversal.VoucherNumber = number

	now := s.now().UTC()
	err = s.voucherRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.VoucherWriter) error {
		if err := tx.SaveVoucher(ctx, reversal, reversalLines); err != nil {
			return fmt.Errorf("failed to save reversal voucher: %w", err)
		}
		if err := tx.MarkVoucherReversed(ctx, original.VoucherID, reversal.VoucherID, actorID, now); err != nil {
			return fmt.Errorf("failed to mark original voucher reversed: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("Voucher reversal failed", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	reversal.Lines = reversalLines
	logger.Info("Voucher reversed",
		slog.String("original_voucher_id", original.VoucherID),
		slog.String("reversal_voucher_id", reversal.VoucherID),
		slog.String("reversal_number", number),
	)
	return &reversal, nil
}

// swappedLineInputs mirrors a line set with debit and credit exchanged,
// keeping every dimension and amount.
func swappedLineInputs(lines []domain.VoucherLine) []dto.VoucherLineInput {
	inputs := make([]dto.VoucherLineInput, len(lines))
	for i, line := range lines {
		inputs[i] = dto.VoucherLineInput{
			AccountID:     line.AccountID,
			CostCenterID:  line.CostCenterID,
			DepartmentID:  line.DepartmentID,
			PartnerID:     line.PartnerID,
			BankAccountID: line.BankAccountID,
			Debit:         line.Credit,
			Credit:        line.Debit,
			Notes:         line.Notes,
		}
	}
	return inputs
}
