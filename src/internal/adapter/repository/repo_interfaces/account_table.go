package repo_interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// BalanceCheck inspects an account while its lock is held, immediately before
// a mutation would be applied. Returning a non-nil error aborts the mutation
// and leaves the account untouched.
type BalanceCheck func(balance decimal.Decimal, frozen bool) error

type AccountTable interface {
	Create(ctx context.Context, accountID string) error
	Get(ctx context.Context, accountID string) (domain.Account, error)
	TryAdjust(ctx context.Context, accountID string, delta decimal.Decimal, check BalanceCheck) (decimal.Decimal, error)
	TryMove(ctx context.Context, fromID string, toID string, amount decimal.Decimal, check BalanceCheck) (decimal.Decimal, decimal.Decimal, error)
	SetFrozen(ctx context.Context, accountID string, frozen bool) (domain.Account, error)
	Snapshot(ctx context.Context) []domain.Account
}
