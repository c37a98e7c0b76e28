package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups migration failures the way the calling identity provider and
// operators care about them.
type Kind string

const (
	KindConfiguration           Kind = "CONFIGURATION_ERROR"
	KindValidation              Kind = "VALIDATION_ERROR"
	KindNotAuthenticated        Kind = "NOT_AUTHENTICATED"
	KindIncompleteLegacyProfile Kind = "INCOMPLETE_LEGACY_PROFILE"
	KindTransient               Kind = "TRANSIENT_ERROR"
)

// MigrationError is the only error type the bridge raises to its caller.
// Two MigrationErrors match under errors.Is when Kind and Code are equal.
type MigrationError struct {
	Kind      Kind
	Code      string
	Attribute string
	Cause     error
}

func (e *MigrationError) Error() string {
	msg := string(e.Kind) + ": " + e.Code
	if e.Attribute != "" {
		msg += fmt.Sprintf(" (%s)", e.Attribute)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

func (e *MigrationError) Is(target error) bool {
	var t *MigrationError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// HTTP 400 Bad Request.
var (
	ErrUnsupportedFlow   = &MigrationError{Kind: KindValidation, Code: "UNSUPPORTED_FLOW"}
	ErrMissingIdentifier = &MigrationError{Kind: KindValidation, Code: "MISSING_IDENTIFIER"}
	ErrMissingPassword   = &MigrationError{Kind: KindValidation, Code: "MISSING_PASSWORD"}
	ErrInvalidRequest    = &MigrationError{Kind: KindValidation, Code: "INVALID_REQUEST"}
)

// HTTP 401 Unauthorized.
var ErrNotAuthenticated = &MigrationError{Kind: KindNotAuthenticated, Code: "NOT_AUTHENTICATED"}

// HTTP 422 Unprocessable Entity.
var ErrMissingContactAttribute = &MigrationError{
	Kind: KindIncompleteLegacyProfile,
	Code: "MISSING_CONTACT_ATTRIBUTE",
}

// HTTP 500 Internal Server Error.
var ErrNoAuthMechanism = &MigrationError{Kind: KindConfiguration, Code: "NO_AUTH_MECHANISM"}

// HTTP 503 Service Unavailable.
var ErrLegacyUnavailable = &MigrationError{Kind: KindTransient, Code: "LEGACY_STORE_UNAVAILABLE"}

func MissingRequiredAttribute(name string) *MigrationError {
	return &MigrationError{
		Kind:      KindIncompleteLegacyProfile,
		Code:      "MISSING_REQUIRED_ATTRIBUTE",
		Attribute: name,
	}
}

// ErrMissingRequiredAttribute matches any MissingRequiredAttribute error.
var ErrMissingRequiredAttribute = MissingRequiredAttribute("")

func NewTransient(cause error) *MigrationError {
	return &MigrationError{Kind: KindTransient, Code: ErrLegacyUnavailable.Code, Cause: cause}
}

func NewConfiguration(code string, cause error) *MigrationError {
	return &MigrationError{Kind: KindConfiguration, Code: code, Cause: cause}
}

// KindOf returns the Kind of the first MigrationError in err's chain, or an
// empty Kind when there is none.
func KindOf(err error) Kind {
	var migrationErr *MigrationError
	if errors.As(err, &migrationErr) {
		return migrationErr.Kind
	}
	return ""
}

// CodeOf returns the Code of the first MigrationError in err's chain.
func CodeOf(err error) string {
	var migrationErr *MigrationError
	if errors.As(err, &migrationErr) {
		return migrationErr.Code
	}
	return "INTERNAL_SERVER_ERROR"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotAuthenticated:
		return http.StatusUnauthorized
	case KindIncompleteLegacyProfile:
		return http.StatusUnprocessableEntity
	case KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
