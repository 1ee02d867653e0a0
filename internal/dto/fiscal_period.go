package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// FiscalPeriodResponse is the API representation of a fiscal period.
type FiscalPeriodResponse struct {
	PeriodCode string                    `json:"periodCode"`
	CompanyID  string                    `json:"companyID"`
	StartDate  time.Time                 `json:"startDate"`
	EndDate    time.Time                 `json:"endDate"`
	Status     domain.FiscalPeriodStatus `json:"status"`
}

// ToFiscalPeriodResponse converts a domain period to its API representation.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodCode: p.PeriodCode,
		CompanyID:  p.CompanyID,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		Status:     p.Status,
	}
}
