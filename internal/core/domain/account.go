package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is an entry in the chart of accounts. The voucher core only needs
// enough of it to check that a line references a real, active account in the
// right company and currency.
type Account struct {
	AccountID    string      `json:"accountID"` // Primary key (UUID)
	CompanyID    string      `json:"companyID"`
	Code         string      `json:"code"` // User-facing account code
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	CurrencyCode string      `json:"currencyCode"`
	Description  string      `json:"description"`
	IsActive     bool        `json:"isActive"`
	AuditFields
}
