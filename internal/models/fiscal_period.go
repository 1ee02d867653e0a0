package models

import "time"

// FiscalPeriodStatus indicates whether a period accepts new postings.
type FiscalPeriodStatus string

// FiscalPeriod represents one calendar month posting window of a company.
type FiscalPeriod struct {
	PeriodCode string             `json:"periodCode" db:"period_code"` // "2026-08"
	CompanyID  string             `json:"companyID" db:"company_id"`
	StartDate  time.Time          `json:"startDate" db:"start_date"`
	EndDate    time.Time          `json:"endDate" db:"end_date"`
	Status     FiscalPeriodStatus `json:"status" db:"status"`
	AuditFields
}
