package domain

import (
	"fmt"
	"time"
)

// FiscalPeriodStatus indicates whether a period accepts new postings.
type FiscalPeriodStatus string

const (
	PeriodOpen   FiscalPeriodStatus = "OPEN"
	PeriodClosed FiscalPeriodStatus = "CLOSED"
)

// FiscalPeriod is a calendar month window that can be open or closed to postings.
// Periods are scoped per company; the period code doubles as the fiscal period
// identifier inside a sequence scope.
type FiscalPeriod struct {
	PeriodCode string             `json:"periodCode"` // "2026-08"
	CompanyID  string             `json:"companyID"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    time.Time          `json:"endDate"`
	Status     FiscalPeriodStatus `json:"status"`
	AuditFields
}

// PeriodCodeFor derives the fiscal period code a date falls into.
func PeriodCodeFor(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}

// PeriodBoundsFor returns the first day of the month containing date and the
// first day of the following month (half-open interval).
func PeriodBoundsFor(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
