package services

import (
	"fmt"

	"migrator/internal/attributes"
	c "migrator/internal/configuration"
	apierrors "migrator/internal/errors"
	"migrator/internal/models"
)

const verified = "true"

// BuildAuthenticationResponse requires an email and maps the legacy status to
// the final status of the migrated account.
func BuildAuthenticationResponse(user models.LegacyUserRecord) (*models.MigrationResponse, error) {
	profile := attributes.Normalize(user.Attributes)
	if !profile.Has(c.AttributeEmail) {
		return nil, apierrors.MissingRequiredAttribute(c.AttributeEmail)
	}

	status := models.FinalUserStatusResetRequired
	if user.Status == models.UserStatusConfirmed {
		status = models.FinalUserStatusConfirmed
	}

	return &models.MigrationResponse{
		Attributes:             profile,
		FinalUserStatus:        status,
		SuppressWelcomeMessage: true,
	}, nil
}

// BuildForgotPasswordResponse requires at least one contact channel and marks
// every present channel as verified.
func BuildForgotPasswordResponse(user models.LegacyUserRecord) (*models.MigrationResponse, error) {
	profile := attributes.Normalize(user.Attributes)

	hasEmail := profile.Has(c.AttributeEmail)
	hasPhone := profile.Has(c.AttributePhoneNumber)
	if !hasEmail && !hasPhone {
		return nil, apierrors.ErrMissingContactAttribute
	}

	if hasEmail {
		profile[c.AttributeEmailVerified] = verified
	}
	if hasPhone {
		profile[c.AttributePhoneNumberVerified] = verified
	}

	return &models.MigrationResponse{
		Attributes:             profile,
		SuppressWelcomeMessage: true,
	}, nil
}

func BuildResponse(flow models.Flow, user models.LegacyUserRecord) (*models.MigrationResponse, error) {
	switch flow {
	case models.FlowAuthentication:
		return BuildAuthenticationResponse(user)
	case models.FlowForgotPassword:
		return BuildForgotPasswordResponse(user)
	default:
		return nil, &apierrors.MigrationError{
			Kind:  apierrors.KindValidation,
			Code:  apierrors.ErrUnsupportedFlow.Code,
			Cause: fmt.Errorf("flow %q", flow),
		}
	}
}
