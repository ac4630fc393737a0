package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
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
		HTTPPort string        `mapstructure:"HTTPPort"`
		Timeout  time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	External ExternalConfig `mapstructure:"external"`
	Resolver ResolverConfig `mapstructure:"resolver"`
}

type JWTConfig struct {
	SecretKey         string        `mapstructure:"secretKey"`
	Issuer            string        `mapstructure:"issuer"`
	Audience          string        `mapstructure:"audience"`
	AccessExpiry      time.Duration `mapstructure:"accessExpiry"`
	RefreshExpiryDays int           `mapstructure:"refreshExpiryDays"`
}

// ExternalConfig carries endpoints and keys for third-party services.
// Keys come from the environment so they never land in the embedded YAML.
type ExternalConfig struct {
	GeminiAPIKey    string
	GeminiModel     string `mapstructure:"geminiModel"`
	KMAAPIKey       string
	KMABaseURL      string `mapstructure:"kmaBaseURL"`
	SeoulDataAPIKey string
	SeoulDataURL    string `mapstructure:"seoulDataURL"`
	GeocodeURL      string `mapstructure:"geocodeURL"`
	RouteURL        string `mapstructure:"routeURL"`
}

// ResolverConfig tunes the itinerary place resolver.
type ResolverConfig struct {
	// Concurrency bounds in-flight lookups. 1 keeps the original
	// one-at-a-time behavior.
	Concurrency int           `mapstructure:"concurrency"`
	GeocodeTTL  time.Duration `mapstructure:"geocodeTTL"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

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

	// Secrets are env-only.
	config.External.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.External.KMAAPIKey = os.Getenv("KMA_API_KEY")
	config.External.SeoulDataAPIKey = os.Getenv("SEOUL_DATA_API_KEY")
	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.JWT.SecretKey = secret
	}
	if pw := os.Getenv("POSTGRES_PASSWORD"); pw != "" {
		config.Repositories.Postgres.Password = pw
	}

	if config.Resolver.Concurrency <= 0 {
		config.Resolver.Concurrency = 1
	}

	return config, nil
}
