package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/dto"
	"github.com/finbooks/finbooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// voucherService is the state machine over the voucher lifecycle. All writes
// to a voucher's mutable fields (status, number, notes, reversal links) go
// through here, each as a single atomic repository write.
type voucherService struct {
	voucherRepo portsrepo.VoucherRepository
	accountSvc  portssvc.AccountService
	currencySvc portssvc.CurrencyService
	periodSvc   portssvc.FiscalPeriodService
	sequenceSvc portssvc.SequenceAllocator
	builder     *VoucherBuilder
	validator   *BalanceValidator
	now         func() time.Time
}

// NewVoucherService creates the voucher service facade.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepository,
	accountSvc portssvc.AccountService,
	currencySvc portssvc.CurrencyService,
	periodSvc portssvc.FiscalPeriodService,
	sequenceSvc portssvc.SequenceAllocator,
) portssvc.VoucherService {
	return &voucherService{
		voucherRepo: voucherRepo,
		accountSvc:  accountSvc,
		currencySvc: currencySvc,
		periodSvc:   periodSvc,
		sequenceSvc: sequenceSvc,
		builder:     NewVoucherBuilder(time.Now),
		validator:   NewBalanceValidator(),
		now:         time.Now,
	}
}

var _ portssvc.VoucherService = (*voucherService)(nil)

// WithNow replaces the service clock; used by tests to control "today".
func (s *voucherService) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
		s.builder = NewVoucherBuilder(now)
	}
}

// toleranceFor resolves the balance tolerance (one smallest unit) for a currency.
func (s *voucherService) toleranceFor(ctx context.Context, currencyCode string) (decimal.Decimal, error) {
	currency, err := s.currencySvc.GetCurrencyByCode(ctx, currencyCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, currencyCode)
		}
		return decimal.Zero, err
	}
	return currency.MinimalUnit(), nil
}

// checkAccounts verifies every referenced account exists, is active, and
// belongs to the voucher's company and currency.
func (s *voucherService) checkAccounts(ctx context.Context, companyID, currencyCode string, lines []domain.VoucherLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, id := range ids {
		acc, found := accounts[id]
		if !found {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.CompanyID != companyID {
			return fmt.Errorf("%w: account %s does not belong to company %s", apperrors.ErrValidation, id, companyID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if acc.CurrencyCode != currencyCode {
			return fmt.Errorf("%w: account %s currency %s does not match voucher currency %s", apperrors.ErrValidation, id, acc.CurrencyCode, currencyCode)
		}
	}
	return nil
}

// CreateDraft builds, validates and persists a new DRAFT voucher.
func (s *voucherService) CreateDraft(ctx context.Context, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, lines, err := s.builder.Build(req, creatorUserID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccounts(ctx, voucher.CompanyID, voucher.CurrencyCode, lines); err != nil {
		return nil, err
	}

	tolerance, err := s.toleranceFor(ctx, voucher.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(voucher, lines, tolerance); err != nil {
		return nil, err
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher, lines); err != nil {
		logger.Error("Failed to save draft voucher", slog.String("error", err.Error()), slog.String("company_id", voucher.CompanyID))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	logger.Info("Draft voucher created", slog.String("voucher_id", voucher.VoucherID), slog.String("voucher_type", string(voucher.VoucherType)))
	return &voucher, nil
}

// GetVoucherByID retrieves a voucher header with its lines populated.
func (s *voucherService) GetVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	lines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for voucher %s: %w", voucherID, err)
	}
	voucher.Lines = lines
	return voucher, nil
}

// ListVouchers retrieves a filtered, token-paginated list of voucher headers.
func (s *voucherService) ListVouchers(ctx context.Context, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := portsrepo.ListVouchersFilter{
		CompanyID:   params.CompanyID,
		LocationID:  params.LocationID,
		VoucherType: params.VoucherType,
		DateFrom:    params.DateFrom,
		DateTo:      params.DateTo,
	}
	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list vouchers", slog.String("error", err.Error()), slog.String("company_id", params.CompanyID))
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	responses := make([]dto.VoucherResponse, len(vouchers))
	for i := range vouchers {
		responses[i] = dto.ToVoucherResponse(&vouchers[i])
	}
	return &dto.ListVouchersResponse{Vouchers: responses, NextToken: nextToken}, nil
}

// PostVoucher transitions a DRAFT voucher to POSTED: re-validates the balance
// invariant, allocates the scoped number, and performs one guarded write.
// A number allocated here is burned if the final write fails.
func (s *voucherService) PostVoucher(ctx context.Context, voucherID string, actorID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.Draft {
		return nil, fmt.Errorf("%w: voucher %s has status %s", ErrAlreadyPosted, voucherID, voucher.Status)
	}

	lines, err := s.voucherRepo.FindLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lines for voucher %s: %w", voucherID, err)
	}

	tolerance, err := s.toleranceFor(ctx, voucher.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(*voucher, lines, tolerance); err != nil {
		return nil, err
	}

	period, err := s.periodSvc.ResolveForDate(ctx, voucher.CompanyID, voucher.VoucherDate, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	scope := domain.SequenceScope{
		CompanyID:   voucher.CompanyID,
		LocationID:  voucher.LocationID,
		VoucherType: voucher.VoucherType,
		PeriodCode:  period.PeriodCode,
	}
	number, err := s.sequenceSvc.Next(ctx, scope)
	if err != nil {
		logger.Warn("Voucher number allocation failed", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrSequenceExhausted, err)
	}

	now := s.now().UTC()
	if err := s.voucherRepo.MarkVoucherPosted(ctx, voucherID, voucher.Version, number, actorID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// The guarded write lost a race; report the precise cause.
			current, findErr := s.voucherRepo.FindVoucherByID(ctx, voucherID)
			if findErr == nil && current.Status != domain.Draft {
				return nil, fmt.Errorf("%w: voucher %s has status %s", ErrAlreadyPosted, voucherID, current.Status)
			}
		}
		logger.Error("Failed to post voucher", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		return nil, err
	}

	voucher.Status = domain.Posted
	voucher.VoucherNumber = number
	voucher.Version++
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = actorID
	voucher.Lines = lines

	logger.Info("Voucher posted", slog.String("voucher_id", voucherID), slog.String("voucher_number", number))
	return voucher, nil
}

// EditNotes updates the notes field; the only mutation allowed after posting.
func (s *voucherService) EditNotes(ctx context.Context, voucherID string, notes string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := s.now().UTC()
	if err := s.voucherRepo.UpdateVoucherNotes(ctx, voucherID, notes, actorID, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update voucher notes", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		}
		return err
	}
	logger.Info("Voucher notes updated", slog.String("voucher_id", voucherID))
	return nil
}

// EditLines replaces the line set of a DRAFT voucher, guarded by the header
// version so a concurrent Post cannot be silently overwritten.
func (s *voucherService) EditLines(ctx context.Context, voucherID string, req dto.UpdateVoucherLinesRequest, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return err
	}
	if voucher.Status != domain.Draft {
		return fmt.Errorf("%w: voucher %s has status %s", ErrNotDraft, voucherID, voucher.Status)
	}

	lines, totalAmount, err := s.builder.BuildLines(voucherID, req.Lines, actorID)
	if err != nil {
		return err
	}

	if err := s.checkAccounts(ctx, voucher.CompanyID, voucher.CurrencyCode, lines); err != nil {
		return err
	}

	tolerance, err := s.toleranceFor(ctx, voucher.CurrencyCode)
	if err != nil {
		return err
	}
	candidate := *voucher
	candidate.TotalAmount = totalAmount
	if err := s.validator.Validate(candidate, lines, tolerance); err != nil {
		return err
	}

	now := s.now().UTC()
	if err := s.voucherRepo.ReplaceVoucherLines(ctx, voucherID, req.Version, lines, totalAmount, actorID, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to replace voucher lines", slog.String("voucher_id", voucherID), slog.String("error", err.Error()))
		}
		return err
	}

	logger.Info("Voucher lines replaced", slog.String("voucher_id", voucherID), slog.Int("line_count", len(lines)))
	return nil
}
