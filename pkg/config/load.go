package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var strategies = map[string]bool{
	"firebase": true,
	"hmac":     true,
}

func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"server_port", cfg.Server.Port,
		"db", maskValue(cfg.DB.Url),
		"auth_strategy", cfg.Auth.Strategy,
		"firebase_project", cfg.Auth.Firebase.ProjectID,
		"hmac_secret", maskValue(cfg.Auth.Hmac.Secret),
		"identity_base_url", cfg.Identity.BaseURL,
		"identity_api_key", maskValue(cfg.Identity.ApiKey),
		"relay_url", cfg.Relay.URL,
		"relay_timeout", cfg.Relay.Timeout,
		"redis", maskValue(cfg.Redis.URL),
		"document_cache_ttl", cfg.DocumentCache.TTL,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express.
func (c *App) Validate() error {
	if !strategies[c.Auth.Strategy] {
		return fmt.Errorf("unknown auth strategy %q (want firebase or hmac)", c.Auth.Strategy)
	}
	if c.Auth.Strategy == "firebase" && c.Auth.Firebase.ProjectID == "" {
		return fmt.Errorf("AUTH_FIREBASE_PROJECT_ID is required for the firebase strategy")
	}
	if c.Auth.Strategy == "hmac" && c.Auth.Hmac.Secret == "" {
		return fmt.Errorf("AUTH_HMAC_SECRET is required for the hmac strategy")
	}
	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("RELAY_TIMEOUT must be positive, got %s", c.Relay.Timeout)
	}
	return nil
}

func maskValue(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
