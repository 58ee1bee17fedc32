package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type accountRecord struct {
	mu        sync.Mutex
	balance   decimal.Decimal
	frozen    bool
	createdAt time.Time
	updatedAt time.Time
}

// snapshot copies the record into a domain value. Caller must hold r.mu.
func (r *accountRecord) snapshot(accountID string) domain.Account {
	return domain.Account{
		ID:        accountID,
		Balance:   r.balance,
		Frozen:    r.frozen,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

// AccountTable holds the in-memory ledger state. The table mutex guards the
// map itself; each record carries its own mutex so operations on distinct
// accounts do not serialize against each other. Records are never removed,
// so a record pointer stays valid after the table lock is released.
type AccountTable struct {
	mu       sync.RWMutex
	accounts map[string]*accountRecord
}

func NewAccountTable() *AccountTable {
	return &AccountTable{accounts: make(map[string]*accountRecord)}
}

func (t *AccountTable) Create(_ context.Context, accountID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.accounts[accountID]; ok {
		return domain.ErrAccountAlreadyExists
	}

	now := time.Now()
	t.accounts[accountID] = &accountRecord{
		balance:   decimal.Zero,
		createdAt: now,
		updatedAt: now,
	}
	return nil
}

func (t *AccountTable) Get(_ context.Context, accountID string) (domain.Account, error) {
	rec, err := t.lookup(accountID)
	if err != nil {
		return domain.Account{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.snapshot(accountID), nil
}

// TryAdjust applies balance += delta only if check accepts the current state.
// Check runs under the account lock, so the state it sees is exactly the
// state the mutation applies to.
func (t *AccountTable) TryAdjust(_ context.Context, accountID string, delta decimal.Decimal, check repo_interfaces.BalanceCheck) (decimal.Decimal, error) {
	rec, err := t.lookup(accountID)
	if err != nil {
		return decimal.Zero, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if check != nil {
		if err := check(rec.balance, rec.frozen); err != nil {
			return decimal.Zero, err
		}
	}

	rec.balance = rec.balance.Add(delta)
	rec.updatedAt = time.Now()
	return rec.balance, nil
}

// TryMove debits fromID and credits toID as a single atomic step. Both
// records are locked in lexicographic id order so that opposing concurrent
// moves on the same pair cannot deadlock. Check sees the debit side.
func (t *AccountTable) TryMove(_ context.Context, fromID string, toID string, amount decimal.Decimal, check repo_interfaces.BalanceCheck) (decimal.Decimal, decimal.Decimal, error) {
	if fromID == toID {
		return decimal.Zero, decimal.Zero, domain.ErrSameAccount
	}

	fromRec, err := t.lookup(fromID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	toRec, err := t.lookup(toID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	first, second := fromRec, toRec
	if toID < fromID {
		first, second = toRec, fromRec
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if check != nil {
		if err := check(fromRec.balance, fromRec.frozen); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}

	now := time.Now()
	fromRec.balance = fromRec.balance.Sub(amount)
	fromRec.updatedAt = now
	toRec.balance = toRec.balance.Add(amount)
	toRec.updatedAt = now
	return fromRec.balance, toRec.balance, nil
}

func (t *AccountTable) SetFrozen(_ context.Context, accountID string, frozen bool) (domain.Account, error) {
	rec, err := t.lookup(accountID)
	if err != nil {
		return domain.Account{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.frozen = frozen
	rec.updatedAt = time.Now()
	return rec.snapshot(accountID), nil
}

// Snapshot returns every account present at call time. Each entry is
// consistent per-account; no ordering or cross-account consistency is
// guaranteed.
func (t *AccountTable) Snapshot(_ context.Context) []domain.Account {
	t.mu.RLock()
	ids := make([]string, 0, len(t.accounts))
	recs := make([]*accountRecord, 0, len(t.accounts))
	for id, rec := range t.accounts {
		ids = append(ids, id)
		recs = append(recs, rec)
	}
	t.mu.RUnlock()

	out := make([]domain.Account, 0, len(recs))
	for i, rec := range recs {
		rec.mu.Lock()
		out = append(out, rec.snapshot(ids[i]))
		rec.mu.Unlock()
	}
	return out
}

func (t *AccountTable) lookup(accountID string) (*accountRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return rec, nil
}

var _ repo_interfaces.AccountTable = (*AccountTable)(nil)
