package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Environment string

const (
	CI          Environment = "ci"
	Testing     Environment = "test"
	Development Environment = "dev"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// GetEnv reads ENV. An unset ENV means development.
func GetEnv() Environment {
	env := os.Getenv("ENV")
	switch env {
	case "ci":
		return CI
	case "test":
		return Testing
	case "dev", "":
		return Development
	case "staging":
		return Staging
	case "production":
		return Production
	default:
		panic(fmt.Sprintf("Invalid environment: %s", env))
	}
}

type Config struct {
	Env               Environment
	Port              int
	Host              string
	AllowedOrigins    []string
	DatabaseDriver    string
	DSN               string
	SlackWebhookURL   string
	RecomputeProgress bool
	LogLevel          string
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// InitConfig loads ./env/<env>/<env>.yaml when present and lets environment
// variables override every key, e.g. PORT, DATABASE_URL, ALLOWED_ORIGINS.
func InitConfig(env Environment) *Config {
	conf := viper.New()

	conf.SetConfigName(string(env))
	conf.SetConfigType("yaml")
	conf.AddConfigPath(fmt.Sprintf("./env/%s", env))
	conf.AddConfigPath(fmt.Sprintf("../env/%s", env))
	conf.AddConfigPath(fmt.Sprintf("../../env/%s", env))

	conf.SetDefault("port", 5000)
	conf.SetDefault("host", "0.0.0.0")
	conf.SetDefault("allowed_origins", "")
	conf.SetDefault("database_driver", "postgres")
	conf.SetDefault("database_url", "")
	conf.SetDefault("slack_webhook_url", "")
	conf.SetDefault("recompute_progress", false)
	conf.SetDefault("log_level", "info")
	conf.AutomaticEnv()

	if err := conf.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Sprintf("Failed to read config file: %v\n", err))
		}
	}

	return &Config{
		Env:               env,
		Port:              conf.GetInt("port"),
		Host:              conf.GetString("host"),
		AllowedOrigins:    SplitOrigins(conf.GetString("allowed_origins")),
		DatabaseDriver:    conf.GetString("database_driver"),
		DSN:               conf.GetString("database_url"),
		SlackWebhookURL:   conf.GetString("slack_webhook_url"),
		RecomputeProgress: conf.GetBool("recompute_progress"),
		LogLevel:          conf.GetString("log_level"),
	}
}

func SplitOrigins(raw string) []string {
	origins := []string{}
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
