package configuration

import (
	"os"
	"path/filepath"
	"testing"

	apierrors "migrator/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range LegacyEnvAliases {
		t.Setenv(name, "")
	}
	t.Setenv("AWS_REGION", "")
	t.Setenv("CONFIG_FILE_PATH", "")
}

func setLegacyAliases(t *testing.T) {
	t.Helper()
	t.Setenv("OLD_USER_POOL_ID", "eu-west-1_legacy")
	t.Setenv("OLD_CLIENT_ID", "legacy-client")
	t.Setenv("OLD_USER_POOL_REGION", "eu-west-1")
}

func TestLoad(t *testing.T) {
	t.Run("should load a lambda configuration from aliases", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, ProfileLambda, config.App.Profile)
		assert.Equal(t, "eu-west-1_legacy", config.Legacy.UserPoolID)
		assert.Equal(t, "legacy-client", config.Legacy.ClientID)
		assert.Equal(t, "eu-west-1", config.Legacy.Region)
		assert.Equal(t, AdminAuthFlowUserPassword, config.Legacy.AdminAuthFlow)
		assert.False(t, config.Legacy.RememberMechanism)
		assert.Equal(t, ProviderNone, config.Cache.Type)
		assert.Equal(t, AudienceMigrationTrigger, config.HTTP.InvokerAudience)
	})

	t.Run("should prefer structured keys over aliases", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("LEGACY__CLIENT_ID", "structured-client")

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "structured-client", config.Legacy.ClientID)
	})

	t.Run("should fall back to AWS_REGION", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("OLD_USER_POOL_REGION", "")
		t.Setenv("AWS_REGION", "us-east-2")

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "us-east-2", config.Legacy.Region)
	})

	t.Run("should fail when the legacy user pool is missing", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("OLD_USER_POOL_ID", "")

		_, err := Load()

		require.Error(t, err)
		assert.Equal(t, apierrors.KindConfiguration, apierrors.KindOf(err))
		assert.Equal(t, "MISSING_OR_INVALID_LEGACY_USER_POOL_ID", apierrors.CodeOf(err))
	})

	t.Run("should require an invoker secret in the http profile", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("APP__PROFILE", ProfileHTTP)
		t.Setenv("HTTP__INVOKER_SECRET", "too-short")

		_, err := Load()

		assert.Equal(t, "MISSING_OR_INVALID_HTTP_INVOKER_SECRET", apierrors.CodeOf(err))
	})

	t.Run("should reject an unknown admin flow", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("LEGACY__ADMIN_AUTH_FLOW", "USER_SRP_AUTH")

		_, err := Load()

		assert.Equal(t, "MISSING_OR_INVALID_LEGACY_ADMIN_AUTH_FLOW", apierrors.CodeOf(err))
	})

	t.Run("should split array fields", func(t *testing.T) {
		clearEnv(t)
		setLegacyAliases(t)
		t.Setenv("CACHE__TYPE", ProviderRedis)
		t.Setenv("CACHE__REDIS__HOSTS", "redis-a:6379, redis-b:6379")

		config, err := Load()

		require.NoError(t, err)
		require.NotNil(t, config.Cache.Redis)
		assert.Equal(t, []string{"redis-a:6379", "redis-b:6379"}, config.Cache.Redis.Hosts)
	})

	t.Run("should read a yaml file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
legacy:
  region: eu-central-1
  user_pool_id: eu-central-1_file
  client_id: file-client
  remember_mechanism: true
cache:
  type: memory
events:
  type: jetstream
  queue: migrator.users
  jetstream:
    host: nats
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("CONFIG_FILE_PATH", path)

		config, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "eu-central-1_file", config.Legacy.UserPoolID)
		assert.True(t, config.Legacy.RememberMechanism)
		require.NotNil(t, config.Events.Jetstream)
		assert.Equal(t, "4222", config.Events.Jetstream.Port)
	})

	t.Run("should fail on an unreadable file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONFIG_FILE_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := Load()

		assert.Equal(t, "INVALID_CONFIG_FILE", apierrors.CodeOf(err))
	})
}

func TestGetProfile(t *testing.T) {
	t.Run("should default to lambda", func(t *testing.T) {
		assert.True(t, GetProfile("").Lambda)
	})

	t.Run("should expose the http server", func(t *testing.T) {
		profile := GetProfile(ProfileHTTP)

		assert.True(t, profile.HTTPServer)
		assert.True(t, profile.NeedsInvokerSecret())
	})
}
