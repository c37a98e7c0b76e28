package configuration

const AppName = "migrator"

// Invoker token settings for the HTTP surface.
const (
	AudienceMigrationTrigger = "migration:trigger"
	MinInvokerSecretLength   = 32
)

// Legacy authentication mechanisms, in priority order.
const (
	MechanismAdmin  = "admin"
	MechanismDirect = "direct"
)

const (
	AdminAuthFlowUserPassword = "ADMIN_USER_PASSWORD_AUTH"
	AdminAuthFlowNoSRP        = "ADMIN_NO_SRP_AUTH"
)

// Provider-internal attributes the new identity provider must never receive.
const (
	AttributeSubject    = "sub"
	AttributeUserStatus = "cognito:user_status"
	AttributeMFAEnabled = "cognito:mfa_enabled"
)

// Contact attributes and their verification flags.
const (
	AttributeEmail               = "email"
	AttributeEmailVerified       = "email_verified"
	AttributePhoneNumber         = "phone_number"
	AttributePhoneNumberVerified = "phone_number_verified"
)

const (
	CacheMechanismKey = "migrator:mechanism:%s:%s"
	CacheMechanismTTL = 3600
)

const (
	ActivityMigrationSucceeded = "migration.succeeded"
	ActivityMigrationDenied    = "migration.denied"
	ActivityMigrationFailed    = "migration.failed"
	ActivityRetentionDays      = 30
)

const EventUserMigrated = "user.migrated"

// Storage and messaging provider types.
const (
	ProviderJetstream = "jetstream"
	ProviderAWS       = "aws"
	ProviderMemory    = "memory"
	ProviderRedis     = "redis"
	ProviderValkey    = "valkey"
	ProviderNone      = "none"
)

// FindUserByEmailLimit is two so that ambiguous email matches can be detected.
const FindUserByEmailLimit = 2

var ArrayConfigFields = []string{
	"cache.redis.hosts",
	"cache.valkey.hosts",
}

var ConfigFileSearchPaths = []string{
	"./config.yaml",
	"templates/config.yaml",
}

var LegacyEnvAliases = map[string]string{
	"OLD_USER_POOL_ID":     "legacy.user_pool_id",
	"OLD_CLIENT_ID":        "legacy.client_id",
	"OLD_CLIENT_SECRET":    "legacy.client_secret",
	"OLD_USER_POOL_REGION": "legacy.region",
	"OLD_ROLE_ARN":         "legacy.role_arn",
	"OLD_EXTERNAL_ID":      "legacy.external_id",
}
