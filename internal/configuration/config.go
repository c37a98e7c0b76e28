package configuration

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	apierrors "migrator/internal/errors"
	"migrator/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

func parseArrayFields(k *koanf.Koanf) {
	for _, field := range ArrayConfigFields {
		if stringVal := k.String(field); stringVal != "" {
			stringVal = strings.Trim(stringVal, "[]")
			var items []string
			if strings.Contains(stringVal, ",") {
				items = strings.Split(stringVal, ",")
			} else {
				items = strings.Fields(stringVal)
			}
			for i, item := range items {
				items[i] = strings.TrimSpace(item)
			}
			err := k.Set(field, items)
			if err != nil {
				zap.L().
					Error("Error parsing array field", zap.String("field", field), zap.Error(err))
			}
		}
	}
}

// applyEnvAliases maps the conventional OLD_* variables used by migration
// triggers onto structured keys, without overriding explicit settings.
func applyEnvAliases(k *koanf.Koanf) {
	for envName, key := range LegacyEnvAliases {
		if value := os.Getenv(envName); value != "" && k.String(key) == "" {
			if err := k.Set(key, value); err != nil {
				zap.L().Error("Failed to apply environment alias",
					zap.String("variable", envName), zap.Error(err))
			}
		}
	}
}

func readEnvVars(k *koanf.Koanf) {
	err := k.Load(env.Provider("", ".", func(s string) string {
		if !strings.Contains(s, "__") {
			return ""
		}
		s = strings.ToLower(s)
		segments := strings.Split(s, "__")
		result := strings.Join(segments, ".")
		return result
	}), nil)
	if err != nil {
		zap.L().Warn("Error loading environment variables", zap.Error(err))
	}

	parseArrayFields(k)
	applyEnvAliases(k)
}

func readFileConfig(k *koanf.Koanf) error {
	configFilePath := os.Getenv("CONFIG_FILE_PATH")
	var filePath string
	if configFilePath == "" {
		for _, path := range ConfigFileSearchPaths {
			if _, err := os.Stat(path); err == nil {
				filePath = path
				break
			}
		}
	} else {
		filePath = configFilePath
	}

	if filePath == "" {
		zap.L().Debug("No configuration file found")
		return nil
	}

	if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config file %s: %w", filePath, err)
	}
	zap.L().Info("Read configuration from file " + filePath)
	return nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]interface{}{
		"app.profile":   ProfileLambda,
		"app.log_level": "info",

		"legacy.admin_auth_flow":    AdminAuthFlowUserPassword,
		"legacy.remember_mechanism": false,

		"http.port":             8080,
		"http.invoker_audience": AudienceMigrationTrigger,

		"cache.type":    "none",
		"events.type":   "none",
		"activity.type": "none",

		"tracing.enabled":      false,
		"tracing.service_name": AppName,
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

func setIfMissing(k *koanf.Koanf, key string, value interface{}) {
	if !k.Exists(key) {
		_ = k.Set(key, value)
	}
}

func loadConditionalDefaults(k *koanf.Koanf) {
	if k.String("events.type") == ProviderJetstream {
		setIfMissing(k, "events.jetstream.port", "4222")
	}
	if k.String("legacy.region") == "" {
		if region := os.Getenv("AWS_REGION"); region != "" {
			_ = k.Set("legacy.region", region)
		}
	}
}

// Load assembles the configuration from defaults, an optional YAML file and
// the environment. Any missing or invalid value is a configuration error.
func Load() (models.Configuration, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return models.Configuration{}, apierrors.NewConfiguration("INVALID_DEFAULTS", err)
	}
	if err := readFileConfig(k); err != nil {
		return models.Configuration{}, apierrors.NewConfiguration("INVALID_CONFIG_FILE", err)
	}
	readEnvVars(k)
	loadConditionalDefaults(k)

	var config models.Configuration
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{Tag: "mapstructure"})
	if err != nil {
		return models.Configuration{}, apierrors.NewConfiguration("UNDECODABLE_CONFIG", err)
	}

	if err = Validate(config); err != nil {
		return models.Configuration{}, err
	}

	return config, nil
}

// Validate checks struct tags plus rules spanning several sections.
func Validate(config models.Configuration) error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
	})
	if err := validate.Struct(config); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			key := strings.TrimPrefix(validationErrors[0].Namespace(), "Configuration.")
			return apierrors.NewConfiguration(
				"MISSING_OR_INVALID_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")),
				err,
			)
		}
		return apierrors.NewConfiguration("INVALID_CONFIG", err)
	}

	profile, ok := Profiles[config.App.Profile]
	if !ok {
		return apierrors.NewConfiguration("UNKNOWN_PROFILE", fmt.Errorf("profile %q", config.App.Profile))
	}
	if profile.NeedsInvokerSecret() && len(config.HTTP.InvokerSecret) < MinInvokerSecretLength {
		return apierrors.NewConfiguration(
			"MISSING_OR_INVALID_HTTP_INVOKER_SECRET",
			fmt.Errorf("http.invoker_secret must be at least %d characters", MinInvokerSecretLength),
		)
	}
	if config.Legacy.RememberMechanism && config.Cache.Type == "none" {
		zap.L().Warn("legacy.remember_mechanism is set but cache.type is none; mechanism is re-detected per request")
	}

	return nil
}

// Read loads the configuration and terminates the process when it is unusable.
func Read() models.Configuration {
	config, err := Load()
	if err != nil {
		zap.L().Fatal("Invalid configuration", zap.Error(err))
	}
	return config
}
