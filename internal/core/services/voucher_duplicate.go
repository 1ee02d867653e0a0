package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// DuplicateVoucher derives an unsaved DRAFT candidate from any voucher,
// whatever its state. The source is only read: all identity is reset (fresh
// ids, no number, no reversal links, date = today) while dimensions and
// amounts carry over. The caller persists the candidate through CreateDraft
// and posts it like any fresh voucher; duplication never bypasses validation.
func (s *voucherService) DuplicateVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, []domain.VoucherLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	source, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, nil, err
	}
	sourceLines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve lines for voucher %s: %w", voucherID, err)
	}

	req := dto.CreateVoucherRequest{
		VoucherType:  source.VoucherType,
		CompanyID:    source.CompanyID,
		LocationID:   source.LocationID,
		CurrencyCode: source.CurrencyCode,
		ExchangeRate: &source.ExchangeRate,
		Notes:        source.Notes,
		Lines:        copiedLineInputs(sourceLines),
	}
	candidate, candidateLines, err := s.builder.Build(req, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build duplicate voucher: %w", err)
	}

	logger.Debug("Voucher duplicated into draft candidate",
		slog.String("source_voucher_id", voucherID),
		slog.String("candidate_voucher_id", candidate.VoucherID),
	)
	return &candidate, candidateLines, nil
}

// copiedLineInputs carries a line set over unchanged: same dimensions, same
// debit/credit sides.
func copiedLineInputs(lines []domain.VoucherLine) []dto.VoucherLineInput {
	inputs := make([]dto.VoucherLineInput, len(lines))
	for i, line := range lines {
		inputs[i] = dto.VoucherLineInput{
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
	return inputs
}
