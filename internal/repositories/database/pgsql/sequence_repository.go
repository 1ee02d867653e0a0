package pgsql

import (
	"context"
	"fmt"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	pool *pgxpool.Pool
}

// newPgxSequenceRepository creates a new repository for voucher number counters.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{pool: pool}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextSequenceValue atomically increments and returns the counter for a scope.
// The upsert holds a row lock for the duration of the statement, so two
// concurrent callers for the same scope serialize and never see the same value.
func (r *PgxSequenceRepository) NextSequenceValue(ctx context.Context, scope domain.SequenceScope) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (company_id, location_id, voucher_type, period_code, last_value)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (company_id, location_id, voucher_type, period_code)
		DO UPDATE SET last_value = voucher_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	err := r.pool.QueryRow(ctx, query,
		scope.CompanyID,
		scope.LocationID,
		string(scope.VoucherType),
		scope.PeriodCode,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate sequence value for scope %s/%s/%s/%s: %w",
			scope.CompanyID, scope.LocationID, scope.VoucherType, scope.PeriodCode, err)
	}
	return value, nil
}
