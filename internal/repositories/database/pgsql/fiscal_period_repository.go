package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fiscalPeriodColumns = `period_code, company_id, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxFiscalPeriodRepository creates a new repository for fiscal period data.
func newPgxFiscalPeriodRepository(pool *pgxpool.Pool) portsrepo.FiscalPeriodRepository {
	return &PgxFiscalPeriodRepository{pool: pool}
}

// Ensure PgxFiscalPeriodRepository implements portsrepo.FiscalPeriodRepository
var _ portsrepo.FiscalPeriodRepository = (*PgxFiscalPeriodRepository)(nil)

// FindPeriod retrieves a period by company and code.
func (r *PgxFiscalPeriodRepository) FindPeriod(ctx context.Context, companyID string, periodCode string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE company_id = $1 AND period_code = $2;`

	m, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query, companyID, periodCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period %s/%s: %w", companyID, periodCode, err)
	}

	domainPeriod := mapping.ToDomainFiscalPeriod(m)
	return &domainPeriod, nil
}

// EnsurePeriod inserts the period if it does not exist yet and returns the
// stored row either way. A concurrent insert of the same period is resolved by
// the ON CONFLICT clause; the existing row wins.
func (r *PgxFiscalPeriodRepository) EnsurePeriod(ctx context.Context, period domain.FiscalPeriod) (*domain.FiscalPeriod, error) {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		INSERT INTO fiscal_periods (` + fiscalPeriodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (company_id, period_code) DO UPDATE SET period_code = fiscal_periods.period_code
		RETURNING ` + fiscalPeriodColumns + `;
	`
	stored, err := scanFiscalPeriod(r.pool.QueryRow(ctx, query,
		m.PeriodCode,
		m.CompanyID,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to ensure fiscal period %s/%s: %w", m.CompanyID, m.PeriodCode, err)
	}

	domainPeriod := mapping.ToDomainFiscalPeriod(stored)
	return &domainPeriod, nil
}

// UpdatePeriodStatus flips a period between OPEN and CLOSED.
func (r *PgxFiscalPeriodRepository) UpdatePeriodStatus(ctx context.Context, companyID string, periodCode string, status domain.FiscalPeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $4 AND period_code = $5;
	`
	tag, err := r.pool.Exec(ctx, query, string(status), updatedAt, updatedBy, companyID, periodCode)
	if err != nil {
		return fmt.Errorf("failed to update fiscal period %s/%s: %w", companyID, periodCode, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal period %s/%s", apperrors.ErrNotFound, companyID, periodCode)
	}
	return nil
}

// ListPeriods retrieves all periods of a company, newest first.
func (r *PgxFiscalPeriodRepository) ListPeriods(ctx context.Context, companyID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + fiscalPeriodColumns + ` FROM fiscal_periods WHERE company_id = $1 ORDER BY period_code DESC;`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal periods for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var modelPeriods []models.FiscalPeriod
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		modelPeriods = append(modelPeriods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows: %w", err)
	}

	return mapping.ToDomainFiscalPeriodSlice(modelPeriods), nil
}

func scanFiscalPeriod(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodCode,
		&m.CompanyID,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}
