package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelVoucher converts a domain Voucher header to a model Voucher.
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:     d.VoucherID,
		VoucherNumber: d.VoucherNumber,
		VoucherType:   models.VoucherType(d.VoucherType),
		CompanyID:     d.CompanyID,
		LocationID:    d.LocationID,
		VoucherDate:   d.VoucherDate,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		Status:        models.VoucherStatus(d.Status),
		TotalAmount:   d.TotalAmount,
		Notes:         d.Notes,
		ReversalOfID:  d.ReversalOfID,
		ReversedByID:  d.ReversedByID,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher header.
// Lines are loaded and attached separately.
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:     m.VoucherID,
		VoucherNumber: m.VoucherNumber,
		VoucherType:   domain.VoucherType(m.VoucherType),
		CompanyID:     m.CompanyID,
		LocationID:    m.LocationID,
		VoucherDate:   m.VoucherDate,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		Status:        domain.VoucherStatus(m.Status),
		TotalAmount:   m.TotalAmount,
		Notes:         m.Notes,
		ReversalOfID:  m.ReversalOfID,
		ReversedByID:  m.ReversedByID,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVoucherLine converts a domain VoucherLine to a model VoucherLine.
func ToModelVoucherLine(d domain.VoucherLine) models.VoucherLine {
	return models.VoucherLine{
		LineID:        d.LineID,
		VoucherID:     d.VoucherID,
		AccountID:     d.AccountID,
		CostCenterID:  d.CostCenterID,
		DepartmentID:  d.DepartmentID,
		PartnerID:     d.PartnerID,
		BankAccountID: d.BankAccountID,
		Debit:         d.Debit,
		Credit:        d.Credit,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherLine converts a model VoucherLine to a domain VoucherLine.
func ToDomainVoucherLine(m models.VoucherLine) domain.VoucherLine {
	return domain.VoucherLine{
		LineID:        m.LineID,
		VoucherID:     m.VoucherID,
		AccountID:     m.AccountID,
		CostCenterID:  m.CostCenterID,
		DepartmentID:  m.DepartmentID,
		PartnerID:     m.PartnerID,
		BankAccountID: m.BankAccountID,
		Debit:         m.Debit,
		Credit:        m.Credit,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainVoucherLineSlice converts a slice of model lines to domain lines.
func ToDomainVoucherLineSlice(ms []models.VoucherLine) []domain.VoucherLine {
	ds := make([]domain.VoucherLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainVoucherLine(m)
	}
	return ds
}
