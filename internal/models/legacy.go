package models

// UserStatus mirrors the legacy store's account status values.
type UserStatus string

const (
	UserStatusConfirmed           UserStatus = "CONFIRMED"
	UserStatusUnconfirmed         UserStatus = "UNCONFIRMED"
	UserStatusResetRequired       UserStatus = "RESET_REQUIRED"
	UserStatusForceChangePassword UserStatus = "FORCE_CHANGE_PASSWORD"
	UserStatusArchived            UserStatus = "ARCHIVED"
	UserStatusCompromised         UserStatus = "COMPROMISED"
	UserStatusExternalProvider    UserStatus = "EXTERNAL_PROVIDER"
	UserStatusUnknown             UserStatus = "UNKNOWN"
)

// Attribute is a single legacy attribute as returned by the legacy store.
type Attribute struct {
	Name  string
	Value string
}

// LegacyUserRecord is a read-only snapshot of an account in the legacy store.
type LegacyUserRecord struct {
	Username   string
	Attributes []Attribute
	Status     UserStatus
	Enabled    bool
}

// Attribute returns the value recorded for name. Later duplicates win, as in
// attributes.Normalize.
func (u LegacyUserRecord) Attribute(name string) (string, bool) {
	for i := len(u.Attributes) - 1; i >= 0; i-- {
		if u.Attributes[i].Name == name {
			return u.Attributes[i].Value, true
		}
	}
	return "", false
}
