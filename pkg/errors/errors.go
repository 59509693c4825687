package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrDuesNotEnabled       = errors.New("dues are not enabled")
	ErrInvalidRule          = errors.New("invalid dues rule")
	ErrAssociationNotFound  = errors.New("association not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrDueNotFound          = errors.New("due not found")
	ErrNoOutstandingDue     = errors.New("no outstanding due")
	ErrDueAlreadyPaid       = errors.New("due is already paid")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrInvalidReference     = errors.New("invalid payment reference")
	ErrForbidden            = errors.New("insufficient permissions")
	ErrReconcileInProgress  = errors.New("reconciliation already in progress")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeDuesNotEnabled       = "DUES_NOT_ENABLED"
	ErrCodeInvalidRule          = "INVALID_DUES_RULE"
	ErrCodeAssociationNotFound  = "ASSOCIATION_NOT_FOUND"
	ErrCodeMemberNotFound       = "MEMBER_NOT_FOUND"
	ErrCodeDueNotFound          = "DUE_NOT_FOUND"
	ErrCodeNoOutstandingDue     = "NO_OUTSTANDING_DUE"
	ErrCodeDueAlreadyPaid       = "DUE_ALREADY_PAID"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeInvalidReference     = "INVALID_PAYMENT_REFERENCE"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeReconcileInProgress  = "RECONCILE_IN_PROGRESS"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
	ErrCodeLedgerError          = "LEDGER_ERROR"
)

// Wrap common errors with business context
func WrapDuesNotEnabled(associationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuesNotEnabled,
		fmt.Sprintf("Dues are not enabled for association %s", associationID),
		ErrDuesNotEnabled,
	)
}

func WrapInvalidRule(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRule,
		reason,
		ErrInvalidRule,
	)
}

func WrapAssociationNotFound(associationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssociationNotFound,
		fmt.Sprintf("Association with ID %s not found", associationID),
		ErrAssociationNotFound,
	)
}

func WrapMemberNotFound(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeMemberNotFound,
		fmt.Sprintf("Member with ID %s not found", memberID),
		ErrMemberNotFound,
	)
}

func WrapDueNotFound(dueID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDueNotFound,
		fmt.Sprintf("Due with ID %s not found", dueID),
		ErrDueNotFound,
	)
}

func WrapNoOutstandingDue(memberID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNoOutstandingDue,
		fmt.Sprintf("No pending dues found for member %s", memberID),
		ErrNoOutstandingDue,
	)
}

func WrapDueAlreadyPaid(dueID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDueAlreadyPaid,
		fmt.Sprintf("Due with ID %s is already paid", dueID),
		ErrDueAlreadyPaid,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapInvalidReference(reference string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidReference,
		fmt.Sprintf("Payment reference %q is not a dues reference", reference),
		ErrInvalidReference,
	)
}

func WrapForbidden(message string) *BusinessError {
	return NewBusinessError(
		ErrCodeForbidden,
		message,
		ErrForbidden,
	)
}

func WrapReconcileInProgress(associationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeReconcileInProgress,
		fmt.Sprintf("Dues for association %s are being reconciled, retry shortly", associationID),
		ErrReconcileInProgress,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

func WrapLedgerError(dueID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeLedgerError,
		fmt.Sprintf("Due %s is paid but its income record could not be written", dueID),
		err,
	)
}

// HTTPStatus maps an error to the status code handlers should return
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAssociationNotFound),
		errors.Is(err, ErrMemberNotFound),
		errors.Is(err, ErrDueNotFound),
		errors.Is(err, ErrNoOutstandingDue):
		return http.StatusNotFound
	case errors.Is(err, ErrDuesNotEnabled),
		errors.Is(err, ErrInvalidRule),
		errors.Is(err, ErrInvalidPaymentAmount),
		errors.Is(err, ErrInvalidReference):
		return http.StatusBadRequest
	case errors.Is(err, ErrDueAlreadyPaid),
		errors.Is(err, ErrReconcileInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the business error code, or empty for unclassified errors
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
