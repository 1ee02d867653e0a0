package pgsql

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds every pgx-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		VoucherRepo:  newPgxVoucherRepository(dbPool),
		SequenceRepo: newPgxSequenceRepository(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		PeriodRepo:   newPgxFiscalPeriodRepository(dbPool),
		CurrencyRepo: newPgxCurrencyRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
	}
}
