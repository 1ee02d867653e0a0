package dto

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreateAccountRequest carries the data needed to create a chart-of-accounts entry.
type CreateAccountRequest struct {
	CompanyID    string             `json:"companyID" binding:"required"`
	Code         string             `json:"code" binding:"required"`
	Name         string             `json:"name" binding:"required"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currencyCode" binding:"required,uppercase,len=3"`
	Description  string             `json:"description"`
}

// UpdateAccountRequest carries optional account field updates.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	CompanyID    string             `json:"companyID"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	Description  string             `json:"description"`
	IsActive     bool               `json:"isActive"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		CompanyID:    a.CompanyID,
		Code:         a.Code,
		Name:         a.Name,
		AccountType:  a.AccountType,
		CurrencyCode: a.CurrencyCode,
		Description:  a.Description,
		IsActive:     a.IsActive,
	}
}
