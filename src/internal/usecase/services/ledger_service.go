package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
)

// LedgerService composes AccountTable primitives into the public monetary
// operations. Every business rule runs inside the table's conditional update,
// so no rule can be invalidated between check and mutation. The service
// returns typed outcomes only; logging happens at the transport layer.
type LedgerService struct {
	accountTable  repo_interfaces.AccountTable
	maxWithdrawal decimal.Decimal
}

func NewLedgerService(accountTable repo_interfaces.AccountTable, maxWithdrawal decimal.Decimal) *LedgerService {
	return &LedgerService{
		accountTable:  accountTable,
		maxWithdrawal: maxWithdrawal,
	}
}

func (s *LedgerService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.CreateAccountResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CreateAccountResponse]("validation failed", err.Error()), err
	}

	if err := s.accountTable.Create(ctx, req.AccountID); err != nil {
		return commons.ErrorResponse[models.CreateAccountResponse]("Account already exists"), err
	}

	account, err := s.accountTable.Get(ctx, req.AccountID)
	if err != nil {
		return commons.ErrorResponse[models.CreateAccountResponse]("Account not found"), err
	}

	response := models.CreateAccountResponse{
		AccountID: account.ID,
		Balance:   account.Balance,
		Frozen:    account.Frozen,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	}

	return commons.SuccessResponse("account created successfully", response), nil
}

func (s *LedgerService) Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.BalanceResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("validation failed", err.Error()), err
	}

	// Deposits pass no check: freezing blocks only outgoing movement, and a
	// positive delta cannot violate the non-negative balance invariant.
	balance, err := s.accountTable.TryAdjust(ctx, accountID, req.Amount, nil)
	if err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
	}

	response := models.BalanceResponse{AccountID: accountID, Balance: balance}
	return commons.SuccessResponse("funds deposited successfully", response), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.BalanceResponse], error) {
	if err := s.validateDebitAmount(req.Amount); err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("validation failed", err.Error()), err
	}

	balance, err := s.accountTable.TryAdjust(ctx, accountID, req.Amount.Neg(), debitCheck(req.Amount))
	if err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("withdrawal rejected", err.Error()), err
	}

	response := models.BalanceResponse{AccountID: accountID, Balance: balance}
	return commons.SuccessResponse("funds withdrawn successfully", response), nil
}

func (s *LedgerService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	// The debit side of a transfer obeys the same ceiling and freeze rules
	// as a plain withdrawal.
	if err := s.validateDebitAmount(req.Amount); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	fromBalance, toBalance, err := s.accountTable.TryMove(ctx, req.FromAccountID, req.ToAccountID, req.Amount, debitCheck(req.Amount))
	if err != nil {
		return commons.ErrorResponse[models.TransferResponse]("transfer rejected", err.Error()), err
	}

	response := models.TransferResponse{
		Reference:     uuid.NewString(),
		FromAccountID: req.FromAccountID,
		FromBalance:   fromBalance,
		ToAccountID:   req.ToAccountID,
		ToBalance:     toBalance,
	}

	return commons.SuccessResponse("funds transferred successfully", response), nil
}

func (s *LedgerService) GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error) {
	account, err := s.accountTable.Get(ctx, accountID)
	if err != nil {
		return commons.ErrorResponse[models.BalanceResponse]("Account not found"), err
	}

	response := models.BalanceResponse{AccountID: account.ID, Balance: account.Balance}
	return commons.SuccessResponse("balance fetched successfully", response), nil
}

func (s *LedgerService) ListAccounts(ctx context.Context) (commons.Response[[]models.AccountSummary], error) {
	accounts := s.accountTable.Snapshot(ctx)

	summaries := make([]models.AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, models.AccountSummary{
			AccountID: account.ID,
			Balance:   account.Balance,
			Frozen:    account.Frozen,
		})
	}

	return commons.SuccessResponse("accounts fetched successfully", summaries), nil
}

func (s *LedgerService) SetFrozen(ctx context.Context, accountID string, frozen bool) (commons.Response[models.FreezeResponse], error) {
	account, err := s.accountTable.SetFrozen(ctx, accountID, frozen)
	if err != nil {
		return commons.ErrorResponse[models.FreezeResponse]("Account not found"), err
	}

	response := models.FreezeResponse{AccountID: account.ID, Frozen: account.Frozen}

	message := "account frozen"
	if !frozen {
		message = "account unfrozen"
	}
	return commons.SuccessResponse(message, response), nil
}

func (s *LedgerService) validateDebitAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if amount.GreaterThan(s.maxWithdrawal) {
		return domain.ErrLimitExceeded
	}
	return nil
}

// debitCheck is the atomic predicate for outgoing movement. The frozen check
// runs first so a frozen, underfunded account reports ErrAccountFrozen.
func debitCheck(amount decimal.Decimal) repo_interfaces.BalanceCheck {
	return func(balance decimal.Decimal, frozen bool) error {
		if frozen {
			return domain.ErrAccountFrozen
		}
		if balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		return nil
	}
}
