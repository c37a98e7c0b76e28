package models

type Configuration struct {
	App      AppConfiguration      `mapstructure:"app"      validate:"required"`
	Legacy   LegacyConfiguration   `mapstructure:"legacy"   validate:"required"`
	HTTP     HTTPConfiguration     `mapstructure:"http"`
	Cache    CacheConfiguration    `mapstructure:"cache"    validate:"required"`
	Events   EventsConfiguration   `mapstructure:"events"   validate:"required"`
	Activity ActivityConfiguration `mapstructure:"activity" validate:"required"`
	Tracing  TracingConfiguration  `mapstructure:"tracing"`
}

type AppConfiguration struct {
	Profile  string `mapstructure:"profile"   validate:"oneof=lambda http"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error fatal panic"`
}

// LegacyConfiguration describes how to reach the legacy user pool.
// Credentials come from the AWS SDK default chain unless AccessKey/SecretKey
// are set. RoleARN switches to an assumed role for cross-account access.
type LegacyConfiguration struct {
	Region            string `mapstructure:"region"             validate:"required"`
	UserPoolID        string `mapstructure:"user_pool_id"       validate:"required"`
	ClientID          string `mapstructure:"client_id"          validate:"required"`
	ClientSecret      string `mapstructure:"client_secret"`
	Endpoint          string `mapstructure:"endpoint"           validate:"omitempty,http_url"`
	AccessKey         string `mapstructure:"access_key"         validate:"required_with=SecretKey"`
	SecretKey         string `mapstructure:"secret_key"         validate:"required_with=AccessKey"`
	RoleARN           string `mapstructure:"role_arn"`
	ExternalID        string `mapstructure:"external_id"`
	AdminAuthFlow     string `mapstructure:"admin_auth_flow"    validate:"oneof=ADMIN_USER_PASSWORD_AUTH ADMIN_NO_SRP_AUTH"`
	RememberMechanism bool   `mapstructure:"remember_mechanism"`
}

type HTTPConfiguration struct {
	Port            int    `mapstructure:"port"             validate:"gte=80,lte=65535"`
	InvokerSecret   string `mapstructure:"invoker_secret"`
	InvokerAudience string `mapstructure:"invoker_audience" validate:"required"`
}

type CacheConfiguration struct {
	Type   string                    `mapstructure:"type"   validate:"required,oneof=none memory redis valkey"`
	Redis  *RedisCacheConfiguration  `mapstructure:"redis"  validate:"required_if=Type redis"`
	Valkey *ValkeyCacheConfiguration `mapstructure:"valkey" validate:"required_if=Type valkey"`
}

type RedisCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"           validate:"required,min=1"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type ValkeyCacheConfiguration struct {
	Hosts         []string `mapstructure:"hosts"           validate:"required,min=1"`
	Password      string   `mapstructure:"password"`
	TLSEnabled    bool     `mapstructure:"tls_enabled"`
	TLSServerName string   `mapstructure:"tls_server_name"`
}

type EventsConfiguration struct {
	Type      string                 `mapstructure:"type"      validate:"required,oneof=none memory aws jetstream"`
	Queue     string                 `mapstructure:"queue"     validate:"required_unless=Type none"`
	Jetstream *JetStreamEventsConfig `mapstructure:"jetstream" validate:"required_if=Type jetstream"`
}

type JetStreamEventsConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port string `mapstructure:"port" validate:"required"`
}

type ActivityConfiguration struct {
	Type       string                           `mapstructure:"type"       validate:"required,oneof=none filesystem"`
	Filesystem *FilesystemActivityConfiguration `mapstructure:"filesystem" validate:"required_if=Type filesystem"`
}

type FilesystemActivityConfiguration struct {
	Directory string `mapstructure:"directory" validate:"required"`
}

type TracingConfiguration struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"     validate:"required_if=Enabled true"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}
