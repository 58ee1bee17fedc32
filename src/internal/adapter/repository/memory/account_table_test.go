package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

func newFundedTable(t *testing.T, balances map[string]int64) *AccountTable {
	t.Helper()
	table := NewAccountTable()
	ctx := context.Background()
	for id, balance := range balances {
		require.NoError(t, table.Create(ctx, id))
		if balance > 0 {
			_, err := table.TryAdjust(ctx, id, decimal.NewFromInt(balance), nil)
			require.NoError(t, err)
		}
	}
	return table
}

func TestAccountTableCreateDuplicate(t *testing.T) {
	table := NewAccountTable()
	ctx := context.Background()

	require.NoError(t, table.Create(ctx, "ACC1001"))
	require.ErrorIs(t, table.Create(ctx, "ACC1001"), domain.ErrAccountAlreadyExists)
}

func TestAccountTableGetMissing(t *testing.T) {
	table := NewAccountTable()

	_, err := table.Get(context.Background(), "ACC9999")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountTableCreateStartsAtZero(t *testing.T) {
	table := NewAccountTable()
	ctx := context.Background()

	require.NoError(t, table.Create(ctx, "ACC1001"))
	account, err := table.Get(ctx, "ACC1001")
	require.NoError(t, err)
	require.True(t, account.Balance.IsZero())
	require.False(t, account.Frozen)
}

func TestAccountTableTryAdjustRejectionLeavesStateUntouched(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 100})
	ctx := context.Background()

	_, err := table.TryAdjust(ctx, "ACC1001", decimal.NewFromInt(-200), func(balance decimal.Decimal, frozen bool) error {
		if balance.LessThan(decimal.NewFromInt(200)) {
			return domain.ErrInsufficientFunds
		}
		return nil
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	account, err := table.Get(ctx, "ACC1001")
	require.NoError(t, err)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(100)))
}

func TestAccountTableTryAdjustMissingAccount(t *testing.T) {
	table := NewAccountTable()

	_, err := table.TryAdjust(context.Background(), "ACC9999", decimal.NewFromInt(1), nil)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountTableTryMoveValidation(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 100})
	ctx := context.Background()
	amount := decimal.NewFromInt(10)

	_, _, err := table.TryMove(ctx, "ACC1001", "ACC1001", amount, nil)
	require.ErrorIs(t, err, domain.ErrSameAccount)

	_, _, err = table.TryMove(ctx, "ACC1001", "ACC9999", amount, nil)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, _, err = table.TryMove(ctx, "ACC9999", "ACC1001", amount, nil)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountTableTryMoveAppliesBothSides(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 1000, "ACC1003": 500})
	ctx := context.Background()

	fromBalance, toBalance, err := table.TryMove(ctx, "ACC1001", "ACC1003", decimal.NewFromInt(500), nil)
	require.NoError(t, err)
	require.True(t, fromBalance.Equal(decimal.NewFromInt(500)))
	require.True(t, toBalance.Equal(decimal.NewFromInt(1000)))
}

func TestAccountTableTryMoveRejectionLeavesBothUntouched(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 100, "ACC1003": 50})
	ctx := context.Background()

	_, _, err := table.TryMove(ctx, "ACC1001", "ACC1003", decimal.NewFromInt(500), func(balance decimal.Decimal, frozen bool) error {
		return domain.ErrInsufficientFunds
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	from, err := table.Get(ctx, "ACC1001")
	require.NoError(t, err)
	to, err := table.Get(ctx, "ACC1003")
	require.NoError(t, err)
	require.True(t, from.Balance.Equal(decimal.NewFromInt(100)))
	require.True(t, to.Balance.Equal(decimal.NewFromInt(50)))
}

func TestAccountTableConcurrentAdjustsNoLostUpdates(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 0})
	ctx := context.Background()

	const workers = 100
	delta := decimal.NewFromInt(7)

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			_, err := table.TryAdjust(ctx, "ACC1001", delta, nil)
			return err
		})
	}
	require.NoError(t, g.Wait())

	account, err := table.Get(ctx, "ACC1001")
	require.NoError(t, err)
	require.True(t, account.Balance.Equal(decimal.NewFromInt(7*workers)), "got %s", account.Balance)
}

// Opposing transfers on the same pair must both finish; a broken lock order
// would leave the two goroutines waiting on each other forever.
func TestAccountTableOpposingMovesComplete(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 10000, "ACC1003": 10000})
	ctx := context.Background()
	amount := decimal.NewFromInt(1)

	var g errgroup.Group
	for range 2 {
		g.Go(func() error {
			for range 500 {
				if _, _, err := table.TryMove(ctx, "ACC1001", "ACC1003", amount, nil); err != nil {
					return err
				}
			}
			return nil
		})
		g.Go(func() error {
			for range 500 {
				if _, _, err := table.TryMove(ctx, "ACC1003", "ACC1001", amount, nil); err != nil {
					return err
				}
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(30 * time.Second):
		t.Fatal("opposing moves did not complete, likely deadlocked")
	}

	from, err := table.Get(ctx, "ACC1001")
	require.NoError(t, err)
	to, err := table.Get(ctx, "ACC1003")
	require.NoError(t, err)
	require.True(t, from.Balance.Add(to.Balance).Equal(decimal.NewFromInt(20000)))
	require.True(t, from.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestAccountTableConcurrentMovesConserveTotal(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"A": 5000, "B": 5000, "C": 5000})
	ctx := context.Background()
	amount := decimal.NewFromInt(3)
	pairs := [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}, {"B", "A"}, {"C", "B"}, {"A", "C"}}

	check := func(balance decimal.Decimal, frozen bool) error {
		if balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		return nil
	}

	var g errgroup.Group
	for _, pair := range pairs {
		g.Go(func() error {
			for range 300 {
				_, _, err := table.TryMove(ctx, pair[0], pair[1], amount, check)
				if err != nil && !errors.Is(err, domain.ErrInsufficientFunds) {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	total := decimal.Zero
	for _, account := range table.Snapshot(ctx) {
		require.False(t, account.Balance.IsNegative(), "account %s went negative", account.ID)
		total = total.Add(account.Balance)
	}
	require.True(t, total.Equal(decimal.NewFromInt(15000)), "got total %s", total)
}

func TestAccountTableSnapshotIncludesEveryAccount(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 1000, "ACC1002": 2500, "ACC1003": 500})

	snapshot := table.Snapshot(context.Background())
	require.Len(t, snapshot, 3)

	seen := make(map[string]decimal.Decimal, len(snapshot))
	for _, account := range snapshot {
		seen[account.ID] = account.Balance
	}
	require.True(t, seen["ACC1001"].Equal(decimal.NewFromInt(1000)))
	require.True(t, seen["ACC1002"].Equal(decimal.NewFromInt(2500)))
	require.True(t, seen["ACC1003"].Equal(decimal.NewFromInt(500)))
}

func TestAccountTableSetFrozen(t *testing.T) {
	table := newFundedTable(t, map[string]int64{"ACC1001": 100})
	ctx := context.Background()

	account, err := table.SetFrozen(ctx, "ACC1001", true)
	require.NoError(t, err)
	require.True(t, account.Frozen)

	account, err = table.SetFrozen(ctx, "ACC1001", false)
	require.NoError(t, err)
	require.False(t, account.Frozen)

	_, err = table.SetFrozen(ctx, "ACC9999", true)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
