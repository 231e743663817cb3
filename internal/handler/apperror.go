package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound   = &AppError{http.StatusNotFound, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrRecipientNotFound = &AppError{http.StatusNotFound, "RECIPIENT_NOT_FOUND", "Recipient not found"}
	ErrInsufficientFunds = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrSelfTransfer      = &AppError{http.StatusUnprocessableEntity, "SELF_TRANSFER_NOT_ALLOWED", "Cannot transfer to yourself"}
	ErrNoActiveAccount   = &AppError{http.StatusUnprocessableEntity, "NO_ACTIVE_ACCOUNT", "Recipient has no active accounts"}
	ErrAccountInactive   = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE", "Account is not active"}
	ErrInvalidAmount     = &AppError{http.StatusBadRequest, "INVALID_AMOUNT", "Amount must be greater than zero"}
	ErrInvalidPhone      = &AppError{http.StatusBadRequest, "INVALID_PHONE", "Phone number contains no digits"}
	ErrEmailExists       = &AppError{http.StatusConflict, "EMAIL_EXISTS", "Email already registered"}
	ErrIINExists         = &AppError{http.StatusConflict, "IIN_EXISTS", "IIN already registered"}

	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}

	// Surfaced distinctly from INTERNAL_ERROR so operators can tell an
	// unreconciled partial transfer apart from an ordinary failure.
	ErrReconciliationRequired = &AppError{http.StatusInternalServerError, "RECONCILIATION_REQUIRED", "Transfer could not be completed or reversed; support has been notified"}
)
