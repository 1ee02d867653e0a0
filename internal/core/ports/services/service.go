package services

// ServiceContainer bundles every service facade so wiring code can pass them
// around as one value.
type ServiceContainer struct {
	Voucher  VoucherService
	Sequence SequenceAllocator
	Account  AccountService
	Period   FiscalPeriodService
	Currency CurrencyService
	User     UserService
}
