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
	"github.com/finbooks/finbooks_backend/internal/middleware"
)

// fiscalPeriodService manages monthly posting periods per company.
type fiscalPeriodService struct {
	periodRepo portsrepo.FiscalPeriodRepository
	now        func() time.Time
}

// NewFiscalPeriodService creates the fiscal period service.
func NewFiscalPeriodService(periodRepo portsrepo.FiscalPeriodRepository) portssvc.FiscalPeriodService {
	return &fiscalPeriodService{periodRepo: periodRepo, now: time.Now}
}

var _ portssvc.FiscalPeriodService = (*fiscalPeriodService)(nil)

// ResolveForDate returns the period a date falls into, creating it OPEN on
// first use. Months are opened lazily rather than provisioned ahead of time.
func (s *fiscalPeriodService) ResolveForDate(ctx context.Context, companyID string, date time.Time, actorID string) (*domain.FiscalPeriod, error) {
	code := domain.PeriodCodeFor(date)
	period, err := s.periodRepo.FindPeriod(ctx, companyID, code)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	start, end := domain.PeriodBoundsFor(date)
	now := s.now().UTC()
	created, err := s.periodRepo.EnsurePeriod(ctx, domain.FiscalPeriod{
		PeriodCode: code,
		CompanyID:  companyID,
		StartDate:  start,
		EndDate:    end,
		Status:     domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fiscal period %s: %w", code, err)
	}
	return created, nil
}

// EnsureOpenForPosting fails with ErrScopeClosed when the period exists and is
// closed. A period that was never materialized has never been closed, so it
// counts as open.
func (s *fiscalPeriodService) EnsureOpenForPosting(ctx context.Context, companyID string, periodCode string) error {
	period, err := s.periodRepo.FindPeriod(ctx, companyID, periodCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if period.Status == domain.PeriodClosed {
		return fmt.Errorf("%w: period %s", ErrScopeClosed, periodCode)
	}
	return nil
}

// ClosePeriod stops new postings into a period.
func (s *fiscalPeriodService) ClosePeriod(ctx context.Context, companyID string, periodCode string, actorID string) error {
	return s.setStatus(ctx, companyID, periodCode, domain.PeriodClosed, actorID)
}

// ReopenPeriod allows postings into a previously closed period again.
func (s *fiscalPeriodService) ReopenPeriod(ctx context.Context, companyID string, periodCode string, actorID string) error {
	return s.setStatus(ctx, companyID, periodCode, domain.PeriodOpen, actorID)
}

func (s *fiscalPeriodService) setStatus(ctx context.Context, companyID, periodCode string, status domain.FiscalPeriodStatus, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.periodRepo.UpdatePeriodStatus(ctx, companyID, periodCode, status, actorID, s.now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update fiscal period status", slog.String("period_code", periodCode), slog.String("error", err.Error()))
		}
		return err
	}
	logger.Info("Fiscal period status updated", slog.String("period_code", periodCode), slog.String("status", string(status)))
	return nil
}

// ListPeriods returns every materialized period for a company.
func (s *fiscalPeriodService) ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, companyID)
}
