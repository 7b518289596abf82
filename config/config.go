package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// AuthConfig holds the process-wide authentication secrets and knobs.
// SecretKey signs access tokens; AdminCode grants the admin role at signup
// when presented. Both are deployment configuration, never account data.
type AuthConfig struct {
	SecretKey string        `mapstructure:"secretKey"`
	AdminCode string        `mapstructure:"adminCode"`
	TokenTTL  time.Duration `mapstructure:"tokenTTL"`
	Issuer    string        `mapstructure:"issuer"`
}

type Config struct {
	Mode         string     `mapstructure:"mode"`
	Auth         AuthConfig `mapstructure:"auth"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment when present, so they never
	// have to live in the config file.
	v.AutomaticEnv()
	_ = v.BindEnv("auth.secretKey", "AUTH_SECRET_KEY")
	_ = v.BindEnv("auth.adminCode", "AUTH_ADMIN_CODE")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")

	// Try to load file-based config, fall back to the embedded defaults.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}

	if config.Auth.SecretKey == "" {
		return Config{}, fmt.Errorf("auth.secretKey must be configured")
	}
	if config.Auth.TokenTTL <= 0 {
		config.Auth.TokenTTL = 24 * time.Hour
	}

	return config, nil
}
