package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

const maxAccountIDLength = 64

type CreateAccountRequest struct {
	AccountID string `json:"accountId"`
}

func (r CreateAccountRequest) Validate() error {
	return validateAccountID(r.AccountID)
}

type CreateAccountResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Frozen    bool            `json:"frozen"`
	CreatedAt string          `json:"createdAt"`
}

// AmountRequest is the body of deposit and withdraw calls; the account id
// travels in the URL path.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r AmountRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

type BalanceResponse struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
}

type AccountSummary struct {
	AccountID string          `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Frozen    bool            `json:"frozen"`
}

type FreezeResponse struct {
	AccountID string `json:"accountId"`
	Frozen    bool   `json:"frozen"`
}

func validateAccountID(accountID string) error {
	trimmed := strings.TrimSpace(accountID)
	if trimmed == "" {
		return errors.New("accountId is required")
	}
	if trimmed != accountID {
		return errors.New("accountId cannot contain leading or trailing whitespace")
	}
	if len(accountID) > maxAccountIDLength {
		return errors.New("accountId cannot exceed 64 characters")
	}
	return nil
}
