package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind is a taxonomy entry: a machine-readable code with a fixed HTTP status.
type Kind struct {
	Code        string
	Status      int
	Description string
}

// Taxonomy entries
var (
	KindValidation = Kind{
		Code:        "VALIDATION_ERROR",
		Status:      http.StatusBadRequest,
		Description: "Invalid request",
	}
	KindInvalidPassword = Kind{
		Code:        "INVALID_PASSWORD_ERROR",
		Status:      http.StatusForbidden,
		Description: "Invalid password",
	}
	KindPasswordMismatch = Kind{
		Code:        "PASSWORD_MISMATCH",
		Status:      http.StatusBadRequest,
		Description: "Passwords do not match",
	}
	KindInvalidPasswordLength = Kind{
		Code:        "INVALID_PASSWORD_LENGTH",
		Status:      http.StatusBadRequest,
		Description: "Password length out of range",
	}
	KindEmailAlreadyTaken = Kind{
		Code:        "EMAIL_ALREADY_TAKEN_ERROR",
		Status:      http.StatusUnprocessableEntity,
		Description: "Email is already taken",
	}
	KindUnprocessableEntity = Kind{
		Code:        "UNPROCESSABLE_ENTITY_ERROR",
		Status:      http.StatusUnprocessableEntity,
		Description: "Unprocessable entity",
	}
	KindUserNotFound = Kind{
		Code:        "USER_NOT_FOUND",
		Status:      http.StatusNotFound,
		Description: "User not found",
	}
	KindUnauthenticated = Kind{
		Code:        "UNAUTHENTICATED_ERROR",
		Status:      http.StatusUnauthorized,
		Description: "Authentication required",
	}
	KindRouteNotFound = Kind{
		Code:        "ROUTE_NOT_FOUND_ERROR",
		Status:      http.StatusNotFound,
		Description: "Route not found",
	}
	KindStorage = Kind{
		Code:        "STORAGE_ERROR",
		Status:      http.StatusInternalServerError,
		Description: "Storage error occurred",
	}
	KindServer = Kind{
		Code:        "SERVER_ERROR",
		Status:      http.StatusInternalServerError,
		Description: "Server error occurred",
	}
	// KindTooManyLoginAttempts is reserved for login lockout; nothing raises it yet.
	KindTooManyLoginAttempts = Kind{
		Code:        "TOO_MANY_LOGIN_ATTEMPTS_ERROR",
		Status:      http.StatusForbidden,
		Description: "Too many failed login attempts",
	}
)

// ValidationDetail is one flattened schema-validation failure.
type ValidationDetail struct {
	Source  string   `json:"source"`
	Keys    []string `json:"keys"`
	Message []string `json:"message"`
}

// Error is the application error carried from any layer up to the HTTP responder.
type Error struct {
	Kind    Kind
	Message string
	Details []ValidationDetail
	Err     error
}

// New creates an error of the given kind.
func New(kind Kind, message string, details ...ValidationDetail) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

// Wrap creates an error of the given kind that keeps err as its cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// NewStorageError wraps a store failure raised by op.
func NewStorageError(op string, err error) *Error {
	return Wrap(KindStorage, fmt.Sprintf("storage: %s failed", op), err)
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Description
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain and whether one was found.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return Kind{}, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k.Code == kind.Code
}

// IsStorage reports whether err is a store failure.
func IsStorage(err error) bool {
	return Is(err, KindStorage)
}

// ErrorResponse is the uniform JSON error body.
type ErrorResponse struct {
	StatusCode       int                `json:"statusCode"`
	Error            string             `json:"error"`
	Description      string             `json:"description"`
	Message          string             `json:"message"`
	ValidationErrors []ValidationDetail `json:"validation_errors,omitempty"`
}

// Respond converts err into a status code and response body.
// Errors outside the taxonomy are reported as SERVER errors without leaking their text.
func Respond(err error) (int, ErrorResponse) {
	var appErr *Error
	if !stderrors.As(err, &appErr) {
		appErr = New(KindServer, "")
	}

	message := appErr.Message
	if message == "" {
		message = appErr.Kind.Description
	}

	return appErr.Kind.Status, ErrorResponse{
		StatusCode:       appErr.Kind.Status,
		Error:            appErr.Kind.Code,
		Description:      appErr.Kind.Description,
		Message:          message,
		ValidationErrors: appErr.Details,
	}
}
