package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account represents a chart-of-accounts entry.
type Account struct {
	AccountID    string      `db:"account_id"`
	CompanyID    string      `db:"company_id"`
	Code         string      `db:"code"` // User-facing account code
	Name         string      `db:"name"`
	AccountType  AccountType `db:"account_type"`
	CurrencyCode string      `db:"currency_code"`
	Description  string      `db:"description"`
	IsActive     bool        `db:"is_active"`
	AuditFields
}
