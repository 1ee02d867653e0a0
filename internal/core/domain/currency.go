package domain

import "github.com/shopspring/decimal"

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int32  `json:"precision"`    // Decimal places of the smallest unit (2 for USD, 0 for JPY)
	AuditFields
}

// MinimalUnit returns the smallest representable amount in this currency,
// used as the rounding tolerance when checking debit/credit balance.
func (c *Currency) MinimalUnit() decimal.Decimal {
	return decimal.New(1, -c.Precision)
}
