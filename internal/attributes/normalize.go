package attributes

import (
	c "migrator/internal/configuration"
	"migrator/internal/models"
)

var excluded = map[string]struct{}{
	c.AttributeSubject:    {},
	c.AttributeUserStatus: {},
	c.AttributeMFAEnabled: {},
}

// IsExcluded reports whether name is a provider-internal attribute that must
// not be handed to the new identity provider.
func IsExcluded(name string) bool {
	_, ok := excluded[name]
	return ok
}

// Normalize flattens legacy attributes into a profile. Names and values pass
// through unchanged; a later duplicate overwrites an earlier one.
func Normalize(legacy []models.Attribute) models.NormalizedProfile {
	profile := make(models.NormalizedProfile, len(legacy))
	for _, attr := range legacy {
		if IsExcluded(attr.Name) {
			continue
		}
		profile[attr.Name] = attr.Value
	}
	return profile
}
