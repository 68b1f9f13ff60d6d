package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/shoplist-api/internal/api/middleware"
	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// Client-facing messages shared by several handlers.
const (
	msgUnexpected        = "An unexpected error occurred"
	msgInvalidRequest    = "Invalid request format"
	msgAccountConflict   = "Email or username already used. Try logging in or use different credentials."
	msgBadCredentials    = "Invalid email or password, Please try again"
	msgUserNotFound      = "User not found"
	msgListNotFound      = "Shopping list not found"
	msgListExists        = "Shopping list already exists!"
	msgItemListNotFound  = "Shopping list not found. Item does not exist"
	msgItemNotFound      = "Item does not exist in shopping list"
	msgItemExists        = "Item already exists in this shopping list!"
	msgInvalidEntityData = "Invalid entity data"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrAccountConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var validationErr *domain.ValidationError
	var validationErrs validator.ValidationErrors

	switch {
	// Field validation carries its own client message
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)

	// Authentication errors
	case errors.Is(err, auth.ErrMissingToken):
		return middleware.MsgMissingToken
	case errors.Is(err, auth.ErrExpiredToken):
		return middleware.MsgExpiredToken
	case errors.Is(err, auth.ErrInvalidToken):
		return middleware.MsgInvalidToken
	case errors.Is(err, service.ErrInvalidCredentials):
		return msgBadCredentials

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return msgUserNotFound
	case errors.Is(err, store.ErrShoppingListNotFound):
		return msgListNotFound
	case errors.Is(err, store.ErrShoppingItemNotFound):
		return msgItemNotFound

	// Conflict errors
	case errors.Is(err, service.ErrAccountConflict),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrUsernameExists):
		return msgAccountConflict
	case errors.Is(err, store.ErrShoppingListExists):
		return msgListExists
	case errors.Is(err, store.ErrShoppingItemExists):
		return msgItemExists

	case errors.Is(err, store.ErrInvalidEntity):
		return msgInvalidEntityData

	default:
		return msgUnexpected
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too short"
	case "max", "lte":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err using the central status and
// message mapping. A non-empty message replaces the mapped one. Server
// errors are logged with the redacted error and never echoed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
