package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type TransferRequest struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if err := validateAccountID(r.FromAccountID); err != nil {
		errs = append(errs, "fromAccountId: "+err.Error())
	}
	if err := validateAccountID(r.ToAccountID); err != nil {
		errs = append(errs, "toAccountId: "+err.Error())
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	if r.FromAccountID == r.ToAccountID {
		return domain.ErrSameAccount
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

type TransferResponse struct {
	Reference     string          `json:"reference"`
	FromAccountID string          `json:"fromAccountId"`
	FromBalance   decimal.Decimal `json:"fromBalance"`
	ToAccountID   string          `json:"toAccountId"`
	ToBalance     decimal.Decimal `json:"toBalance"`
}
