package repositories

import (
	"context"
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// FiscalPeriodRepository defines persistence operations for fiscal periods.
type FiscalPeriodRepository interface {
	// FindPeriod retrieves a period by company and code.
	FindPeriod(ctx context.Context, companyID string, periodCode string) (*domain.FiscalPeriod, error)

	// EnsurePeriod inserts the period if it does not exist yet (status OPEN)
	// and returns the stored row either way.
	EnsurePeriod(ctx context.Context, period domain.FiscalPeriod) (*domain.FiscalPeriod, error)

	// UpdatePeriodStatus flips a period between OPEN and CLOSED.
	UpdatePeriodStatus(ctx context.Context, companyID string, periodCode string, status domain.FiscalPeriodStatus, updatedBy string, updatedAt time.Time) error

	ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error)
}
