/**
 * @description
 * Configuration for the auth-server and exporter binaries.
 * Settings come from environment variables through viper, and required keys
 * are checked with validator tags. Errors name the missing environment key.
 */
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Monzo holds the settings shared by both binaries.
type Monzo struct {
	APIBaseURL   string `mapstructure:"MONZO_API_BASE_URL" validate:"required,url"`
	ClientID     string `mapstructure:"MONZO_CLIENT_ID" validate:"required"`
	ClientSecret string `mapstructure:"MONZO_CLIENT_SECRET" validate:"required"`
	OTelEnabled  bool   `mapstructure:"OTEL_ENABLED"`
}

// AuthServerConfig configures the OAuth login helper.
type AuthServerConfig struct {
	Monzo           `mapstructure:",squash"`
	ServerPort      string `mapstructure:"SERVER_PORT" validate:"required"`
	AuthBaseURL     string `mapstructure:"MONZO_AUTH_BASE_URL" validate:"required,url"`
	RedirectURI     string `mapstructure:"MONZO_REDIRECT_URI" validate:"required,url"`
	StateSecret     string `mapstructure:"OAUTH_STATE_SECRET" validate:"required"`
	StateTTLMinutes int    `mapstructure:"OAUTH_STATE_TTL_MINUTES" validate:"gt=0"`
}

// ExporterConfig configures the scheduled transaction exporter.
type ExporterConfig struct {
	Monzo                 `mapstructure:",squash"`
	AccessToken           string `mapstructure:"MONZO_ACCESS_TOKEN" validate:"required_without=RefreshToken"`
	RefreshToken          string `mapstructure:"MONZO_REFRESH_TOKEN"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL" validate:"required"`
	TransactionExchange   string `mapstructure:"TRANSACTION_EXCHANGE" validate:"required"`
	ExportJobSchedule     string `mapstructure:"EXPORT_JOB_SCHEDULE" validate:"required"`
	ExportLookbackMinutes int    `mapstructure:"EXPORT_LOOKBACK_MINUTES" validate:"gt=0"`
	ExportPageLimit       int    `mapstructure:"EXPORT_PAGE_LIMIT" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report env keys rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func setSharedDefaults() {
	viper.SetDefault("MONZO_API_BASE_URL", "https://api.monzo.com")
	viper.SetDefault("OTEL_ENABLED", false)
	viper.AutomaticEnv()

	_ = viper.BindEnv("MONZO_API_BASE_URL")
	_ = viper.BindEnv("MONZO_CLIENT_ID")
	_ = viper.BindEnv("MONZO_CLIENT_SECRET")
	_ = viper.BindEnv("OTEL_ENABLED")
}

// LoadAuthServerConfig reads the auth-server configuration from the environment.
func LoadAuthServerConfig() (*AuthServerConfig, error) {
	setSharedDefaults()
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MONZO_AUTH_BASE_URL", "https://auth.monzo.com/")
	viper.SetDefault("OAUTH_STATE_TTL_MINUTES", 10)

	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("MONZO_AUTH_BASE_URL")
	_ = viper.BindEnv("MONZO_REDIRECT_URI")
	_ = viper.BindEnv("OAUTH_STATE_SECRET")
	_ = viper.BindEnv("OAUTH_STATE_TTL_MINUTES")

	var cfg AuthServerConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := check(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadExporterConfig reads the exporter configuration from the environment.
func LoadExporterConfig() (*ExporterConfig, error) {
	setSharedDefaults()
	viper.SetDefault("TRANSACTION_EXCHANGE", "monzo.transactions")
	viper.SetDefault("EXPORT_JOB_SCHEDULE", "*/15 * * * *") // Every 15 minutes.
	viper.SetDefault("EXPORT_LOOKBACK_MINUTES", 60)
	viper.SetDefault("EXPORT_PAGE_LIMIT", 100)

	_ = viper.BindEnv("MONZO_ACCESS_TOKEN")
	_ = viper.BindEnv("MONZO_REFRESH_TOKEN")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("TRANSACTION_EXCHANGE")
	_ = viper.BindEnv("EXPORT_JOB_SCHEDULE")
	_ = viper.BindEnv("EXPORT_LOOKBACK_MINUTES")
	_ = viper.BindEnv("EXPORT_PAGE_LIMIT")

	var cfg ExporterConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := check(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func check(cfg interface{}) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Errorf("%s is required", fe.Field())
	default:
		return fmt.Errorf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
