package configuration

import (
	"migrator/internal/models"

	"go.uber.org/zap"
)

const (
	ProfileLambda = "lambda"
	ProfileHTTP   = "http"
)

// Profiles defines all available deployment profiles.
var Profiles = map[string]models.Profile{
	ProfileLambda: {
		Name:   ProfileLambda,
		Lambda: true,
	},
	ProfileHTTP: {
		Name:       ProfileHTTP,
		HTTPServer: true,
	},
}

// GetProfile returns the profile by name. Returns the lambda profile if name is empty.
func GetProfile(name string) models.Profile {
	if name == "" {
		name = ProfileLambda
	}

	profile, ok := Profiles[name]

	if !ok {
		zap.L().Fatal("Unknown profile",
			zap.String("profile", name),
			zap.Strings("available_profiles", []string{ProfileLambda, ProfileHTTP}))
	}

	zap.L().Info("Loaded profile", zap.String("profile", profile.Name))

	return profile
}
