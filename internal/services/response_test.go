package services

import (
	"testing"

	apierrors "migrator/internal/errors"
	"migrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attr(name, value string) models.Attribute {
	return models.Attribute{Name: name, Value: value}
}

func TestBuildAuthenticationResponse(t *testing.T) {
	t.Run("should confirm users confirmed in the legacy store", func(t *testing.T) {
		response, err := BuildAuthenticationResponse(legacyUser(models.UserStatusConfirmed,
			attr("sub", "abc"),
			attr("email", "jane@x.com"),
			attr("email_verified", "true"),
		))

		require.NoError(t, err)
		assert.Equal(t, models.FinalUserStatusConfirmed, response.FinalUserStatus)
		assert.True(t, response.SuppressWelcomeMessage)
		assert.Equal(t, models.NormalizedProfile{"email": "jane@x.com", "email_verified": "true"}, response.Attributes)
	})

	t.Run("should require a reset for any other legacy status", func(t *testing.T) {
		for _, status := range []models.UserStatus{
			models.UserStatusUnconfirmed,
			models.UserStatusResetRequired,
			models.UserStatusForceChangePassword,
		} {
			response, err := BuildAuthenticationResponse(legacyUser(status, attr("email", "jane@x.com")))

			require.NoError(t, err)
			assert.Equal(t, models.FinalUserStatusResetRequired, response.FinalUserStatus, string(status))
		}
	})

	t.Run("should fail without an email", func(t *testing.T) {
		_, err := BuildAuthenticationResponse(legacyUser(models.UserStatusConfirmed, attr("phone_number", "+33600000000")))

		require.Error(t, err)
		assert.ErrorIs(t, err, apierrors.ErrMissingRequiredAttribute)
		assert.Equal(t, apierrors.KindIncompleteLegacyProfile, apierrors.KindOf(err))
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("should treat an empty email as missing", func(t *testing.T) {
		_, err := BuildAuthenticationResponse(legacyUser(models.UserStatusConfirmed, attr("email", "")))

		assert.ErrorIs(t, err, apierrors.ErrMissingRequiredAttribute)
	})

	t.Run("should leave verification flags untouched", func(t *testing.T) {
		response, err := BuildAuthenticationResponse(legacyUser(models.UserStatusConfirmed,
			attr("email", "jane@x.com"),
			attr("email_verified", "false"),
		))

		require.NoError(t, err)
		assert.Equal(t, "false", response.Attributes["email_verified"])
	})
}

func TestBuildForgotPasswordResponse(t *testing.T) {
	t.Run("should verify an unverified email", func(t *testing.T) {
		response, err := BuildForgotPasswordResponse(legacyUser(models.UserStatusConfirmed,
			attr("email", "jane@x.com"),
			attr("email_verified", "false"),
		))

		require.NoError(t, err)
		assert.Equal(t, "true", response.Attributes["email_verified"])
		assert.Empty(t, response.FinalUserStatus)
		assert.True(t, response.SuppressWelcomeMessage)
	})

	t.Run("should keep an already verified email verified", func(t *testing.T) {
		response, err := BuildForgotPasswordResponse(legacyUser(models.UserStatusConfirmed,
			attr("email", "jane@x.com"),
			attr("email_verified", "true"),
		))

		require.NoError(t, err)
		assert.Equal(t, "true", response.Attributes["email_verified"])
	})

	t.Run("should accept a phone number alone and verify it", func(t *testing.T) {
		response, err := BuildForgotPasswordResponse(legacyUser(models.UserStatusConfirmed,
			attr("phone_number", "+33600000000"),
		))

		require.NoError(t, err)
		assert.Equal(t, "true", response.Attributes["phone_number_verified"])
		_, hasEmailFlag := response.Attributes["email_verified"]
		assert.False(t, hasEmailFlag)
	})

	t.Run("should fail without any contact channel", func(t *testing.T) {
		_, err := BuildForgotPasswordResponse(legacyUser(models.UserStatusConfirmed, attr("name", "Jane")))

		assert.ErrorIs(t, err, apierrors.ErrMissingContactAttribute)
		assert.Equal(t, apierrors.KindIncompleteLegacyProfile, apierrors.KindOf(err))
	})

	t.Run("should never expose provider internal attributes", func(t *testing.T) {
		response, err := BuildForgotPasswordResponse(legacyUser(models.UserStatusConfirmed,
			attr("sub", "abc"),
			attr("cognito:user_status", "CONFIRMED"),
			attr("cognito:mfa_enabled", "true"),
			attr("email", "jane@x.com"),
		))

		require.NoError(t, err)
		for _, key := range []string{"sub", "cognito:user_status", "cognito:mfa_enabled"} {
			assert.NotContains(t, response.Attributes, key)
		}
	})
}

func TestBuildResponse(t *testing.T) {
	t.Run("should reject unknown flows", func(t *testing.T) {
		_, err := BuildResponse(models.Flow("Other"), legacyUser(models.UserStatusConfirmed, attr("email", "a@b.c")))

		assert.ErrorIs(t, err, apierrors.ErrUnsupportedFlow)
	})
}
