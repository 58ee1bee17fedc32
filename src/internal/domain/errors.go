package domain

import "errors"

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrLimitExceeded        = errors.New("amount exceeds the per-transaction limit")
	ErrAccountFrozen        = errors.New("account is frozen")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrSameAccount          = errors.New("debit and credit accounts must differ")
)
