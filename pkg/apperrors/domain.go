package apperrors

import (
	"net/http"
)

// Factories and predefined values for common domain errors.

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound and
// friends) into a 404 AppError.
func ErrNotFound(err error, domain string) *AppError {
	return Wrap(err, CodeNotFound, domain, "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists maps duplicate creation attempts to 409.
func ErrAlreadyExists(err error, domain string) *AppError {
	return Wrap(err, CodeAlreadyExists, domain, "Resource already exists", http.StatusConflict)
}

// ErrInvalidState reports a business-rule violation: duplicate account,
// trial re-use, bad status transition. Maps to 400.
func ErrInvalidState(domain, message string) *AppError {
	return New(CodeInvalidState, domain, message, http.StatusBadRequest)
}

// ErrQuotaExceeded reports an exhausted consumable quota. Maps to 403.
func ErrQuotaExceeded(domain, message string) *AppError {
	return New(CodeQuotaExceeded, domain, message, http.StatusForbidden)
}

var ErrInvalidUserRole = New(
	CodeInvalidState,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrAccountBlocked = New(
	CodeForbidden,
	"auth",
	"Account is blocked",
	http.StatusForbidden,
)

var ErrAccountNotApproved = New(
	CodeForbidden,
	"auth",
	"Account is pending approval",
	http.StatusForbidden,
)

// --- Uploads & files ---

var ErrFileTooLarge = New(
	CodeQuotaExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)
