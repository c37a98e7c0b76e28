package models

import "fmt"

// OutcomeKind is the closed set of results an authentication or lookup
// attempt against the legacy store can produce.
type OutcomeKind uint8

const (
	OutcomeUnknown OutcomeKind = iota
	OutcomeFound
	OutcomeNotFound
	OutcomeInvalidCredentials
	OutcomeTransientError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeTransientError:
		return "transient_error"
	default:
		return "unknown"
	}
}

// MigrationOutcome is a tagged result. User is set only for OutcomeFound and
// Err only for OutcomeTransientError.
type MigrationOutcome struct {
	Kind OutcomeKind
	User *LegacyUserRecord
	Err  error
}

func Found(user LegacyUserRecord) MigrationOutcome {
	return MigrationOutcome{Kind: OutcomeFound, User: &user}
}

func NotFound() MigrationOutcome {
	return MigrationOutcome{Kind: OutcomeNotFound}
}

func InvalidCredentials() MigrationOutcome {
	return MigrationOutcome{Kind: OutcomeInvalidCredentials}
}

func TransientError(cause error) MigrationOutcome {
	return MigrationOutcome{Kind: OutcomeTransientError, Err: cause}
}

// IsTerminalRejection reports whether the outcome denies the user without
// indicating a legacy store problem.
func (o MigrationOutcome) IsTerminalRejection() bool {
	return o.Kind == OutcomeNotFound || o.Kind == OutcomeInvalidCredentials
}

func (o MigrationOutcome) String() string {
	switch o.Kind {
	case OutcomeFound:
		return fmt.Sprintf("found(%s)", o.User.Username)
	case OutcomeTransientError:
		return fmt.Sprintf("transient_error(%v)", o.Err)
	default:
		return o.Kind.String()
	}
}
