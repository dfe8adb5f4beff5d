package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is an error translated for API clients
type ErrorInfo struct {
	Code    string // see codes.go
	Message string
}

// ParseError converts storage and driver errors into a code and a message
// that is safe to show. context names the operation, e.g. "create order".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "An unexpected error occurred"}
	}

	errLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	// postgres 23505 and sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// postgres 23503 and sqlite FOREIGN KEY
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "The record is referenced by other data"}
	}

	if strings.Contains(errLower, "violates not-null constraint") || strings.Contains(errLower, "not null constraint failed") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalDatabase, Message: "The data store is unavailable, please try again"}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errLower, "order_number"):
		return ErrorInfo{Code: ResourceConflict, Message: "Order number collision, please retry checkout"}
	case strings.Contains(errLower, "staff_code"), strings.Contains(errLower, "admin_code"):
		return ErrorInfo{Code: ResourceConflict, Message: "Account code is already taken"}
	default:
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "order"):
		return "Order not found"
	case strings.Contains(contextLower, "menu"):
		return "Menu item not found"
	case strings.Contains(contextLower, "staff"):
		return "Staff member not found"
	case strings.Contains(contextLower, "customer"), strings.Contains(contextLower, "user"):
		return "Customer not found"
	default:
		return "The requested record was not found"
	}
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "place"):
		return "Failed to save, please try again"
	case strings.Contains(contextLower, "update"):
		return "Failed to update, please try again"
	case strings.Contains(contextLower, "delete"), strings.Contains(contextLower, "clear"):
		return "Failed to delete, please try again"
	default:
		return "An unexpected error occurred, please try again"
	}
}
