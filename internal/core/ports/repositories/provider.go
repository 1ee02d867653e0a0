package repositories

// RepositoryProvider bundles every repository implementation so wiring code can
// pass them around as one value.
type RepositoryProvider struct {
	VoucherRepo  VoucherRepository
	SequenceRepo SequenceRepository
	AccountRepo  AccountRepository
	PeriodRepo   FiscalPeriodRepository
	CurrencyRepo CurrencyRepository
	UserRepo     UserRepository
}
