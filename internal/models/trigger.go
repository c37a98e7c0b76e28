package models

// Flow identifies which operation the new identity provider is attempting for a
// user that does not exist there yet.
type Flow string

const (
	FlowAuthentication Flow = "Authentication"
	FlowForgotPassword Flow = "ForgotPassword"
)

// FinalUserStatus is the account status the new identity provider assigns to a
// migrated user. Only set for the Authentication flow.
type FinalUserStatus string

const (
	FinalUserStatusConfirmed     FinalUserStatus = "Confirmed"
	FinalUserStatusResetRequired FinalUserStatus = "ResetRequired"
)

// TriggerEvent is the inbound migration callback. It lives for a single
// invocation and is returned to the caller with Response filled in.
type TriggerEvent struct {
	Flow            Flow               `json:"flow"             validate:"oneof=Authentication ForgotPassword"`
	LoginIdentifier string             `json:"login_identifier" validate:"required"`
	Password        string             `json:"password,omitempty" validate:"required_if=Flow Authentication"`
	Caller          CallerContext      `json:"caller"`
	Response        *MigrationResponse `json:"response,omitempty"`
}

// CallerContext carries descriptive metadata about the invoking identity
// provider. It is used for logs and audit only.
type CallerContext struct {
	UserPoolID string `json:"user_pool_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	Region     string `json:"region,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// MigrationResponse is what the new identity provider needs to create the
// account silently.
type MigrationResponse struct {
	Attributes             NormalizedProfile `json:"attributes"`
	FinalUserStatus        FinalUserStatus   `json:"final_user_status,omitempty"`
	SuppressWelcomeMessage bool              `json:"suppress_welcome_message"`
}

// NormalizedProfile maps attribute names to string values, with provider
// internal attributes removed.
type NormalizedProfile map[string]string

// Has reports whether the profile carries a non-empty value for name.
func (p NormalizedProfile) Has(name string) bool {
	return p[name] != ""
}
