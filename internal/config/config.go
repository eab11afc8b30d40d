package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all fireplan server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Auth   AuthConfig   `toml:"auth"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// AuthConfig holds session-token settings. APIToken is the shared secret a
// client exchanges for a JWT; JWTSecret signs the issued tokens.
type AuthConfig struct {
	APIToken        string `toml:"api_token,omitempty"`
	JWTSecret       string `toml:"jwt_secret,omitempty"`
	TokenTTLMinutes int    `toml:"token_ttl_minutes"`
}

// LogConfig holds logger settings. Mode is "production" or "development".
type LogConfig struct {
	Mode string `toml:"mode"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Auth: AuthConfig{
			APIToken:        "dev-token",
			JWTSecret:       "dev-secret-change-in-production",
			TokenTTLMinutes: 60,
		},
		Log: LogConfig{
			Mode: "development",
		},
	}
}

// Load reads the TOML config at path, falling back to defaults when the file
// does not exist, then applies environment overrides. Environment variables
// win over the file so containerized deployments need no config file at all.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FIREPLAN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FIREPLAN_API_TOKEN"); v != "" {
		cfg.Auth.APIToken = v
	}
	if v := os.Getenv("FIREPLAN_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("FIREPLAN_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
}
