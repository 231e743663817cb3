package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidPhone      = errors.New("phone number contains no digits")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrNoActiveAccount   = errors.New("recipient has no active accounts")
	ErrAccountInactive   = errors.New("account is not active")
	ErrEmailExists       = errors.New("email already registered")
	ErrIINExists         = errors.New("iin already registered")
	ErrInvalidRequest    = errors.New("invalid request")

	// ErrReconciliationRequired marks a partial transfer whose compensating
	// adjustment could not be applied. Never returned for ordinary
	// business-rule rejections; an operator must reconcile manually.
	ErrReconciliationRequired = errors.New("transfer left inconsistent state, reconciliation required")
)
