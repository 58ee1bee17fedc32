package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req models.CreateAccountRequest) (commons.Response[models.CreateAccountResponse], error)
	Deposit(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.BalanceResponse], error)
	Withdraw(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.BalanceResponse], error)
	GetBalance(ctx context.Context, accountID string) (commons.Response[models.BalanceResponse], error)
	ListAccounts(ctx context.Context) (commons.Response[[]models.AccountSummary], error)
	SetFrozen(ctx context.Context, accountID string, frozen bool) (commons.Response[models.FreezeResponse], error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /accounts", c.createAccount)
	mux.HandleFunc("GET /accounts", c.listAccounts)
	mux.HandleFunc("GET /accounts/{id}", c.getBalance)
	mux.HandleFunc("POST /accounts/{id}/deposit", c.deposit)
	mux.HandleFunc("POST /accounts/{id}/withdraw", c.withdraw)
	mux.HandleFunc("POST /accounts/{id}/freeze", c.freeze)
	mux.HandleFunc("POST /accounts/{id}/unfreeze", c.unfreeze)
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.CreateAccountResponse]("invalid request body", err.Error())
		commons.WriteJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateAccount(r.Context(), req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message})
		status := statusFor(response.Message, err)
		commons.WriteJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	commons.WriteJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) deposit(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, c.service.Deposit)
}

func (c *AccountController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.adjust(w, r, c.service.Withdraw)
}

func (c *AccountController) adjust(
	w http.ResponseWriter,
	r *http.Request,
	operation func(ctx context.Context, accountID string, req models.AmountRequest) (commons.Response[models.BalanceResponse], error),
) {
	start := time.Now()
	accountID := r.PathValue("id")

	var req models.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.BalanceResponse]("invalid request body", err.Error())
		commons.WriteJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	response, err := operation(r.Context(), accountID, req)
	if err != nil {
		logError(r, err, logger.Fields{"message": response.Message, "accountId": accountID})
		status := statusFor(response.Message, err)
		commons.WriteJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	commons.WriteJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	accountID := r.PathValue("id")
	logRequest(r, nil)

	response, err := c.service.GetBalance(r.Context(), accountID)
	if err != nil {
		logError(r, err, logger.Fields{"accountId": accountID})
		status := statusFor(response.Message, err)
		commons.WriteJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	commons.WriteJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	response, err := c.service.ListAccounts(r.Context())
	if err != nil {
		logError(r, err, nil)
		status := statusFor(response.Message, err)
		commons.WriteJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	commons.WriteJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) freeze(w http.ResponseWriter, r *http.Request) {
	c.setFrozen(w, r, true)
}

func (c *AccountController) unfreeze(w http.ResponseWriter, r *http.Request) {
	c.setFrozen(w, r, false)
}

func (c *AccountController) setFrozen(w http.ResponseWriter, r *http.Request, frozen bool) {
	start := time.Now()
	accountID := r.PathValue("id")
	logRequest(r, nil)

	response, err := c.service.SetFrozen(r.Context(), accountID, frozen)
	if err != nil {
		logError(r, err, logger.Fields{"accountId": accountID})
		status := statusFor(response.Message, err)
		commons.WriteJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	commons.WriteJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
