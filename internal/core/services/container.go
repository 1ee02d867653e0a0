package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service over the given repositories.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	periodSvc := NewFiscalPeriodService(repos.PeriodRepo)
	sequenceSvc := NewSequenceService(repos.SequenceRepo, periodSvc)
	accountSvc := NewAccountService(repos.AccountRepo, repos.CurrencyRepo)
	currencySvc := NewCurrencyService(repos.CurrencyRepo)
	userSvc := NewUserService(repos.UserRepo)
	voucherSvc := NewVoucherService(repos.VoucherRepo, accountSvc, currencySvc, periodSvc, sequenceSvc)

	return &portssvc.ServiceContainer{
		Voucher:  voucherSvc,
		Sequence: sequenceSvc,
		Account:  accountSvc,
		Period:   periodSvc,
		Currency: currencySvc,
		User:     userSvc,
	}
}
