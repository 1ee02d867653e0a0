package services

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// FiscalPeriodService manages monthly posting periods.
type FiscalPeriodService interface {
	// ResolveForDate returns the period a date falls into, creating it OPEN if
	// it does not exist yet.
	ResolveForDate(ctx context.Context, companyID string, date time.Time, actorID string) (*domain.FiscalPeriod, error)

	// EnsureOpenForPosting fails with ErrScopeClosed when the period is closed.
	EnsureOpenForPosting(ctx context.Context, companyID string, periodCode string) error

	ClosePeriod(ctx context.Context, companyID string, periodCode string, actorID string) error
	ReopenPeriod(ctx context.Context, companyID string, periodCode string, actorID string) error
	ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error)
}
