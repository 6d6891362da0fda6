package config

import (
	"encoding/json"
	"os"
	"strings"
)

type Config struct {
	// Клиент
	APIBaseURL string `json:"apiBaseUrl"`
	AuthMode   string `json:"authMode"` // "none" (default) | "function_key" | "oauth"

	// function key режим
	FunctionKey string `json:"functionKey"`

	// oauth client credentials режим
	OAuthClientID     string `json:"oauthClientId"`
	OAuthClientSecret string `json:"oauthClientSecret"`
	OAuthTokenURL     string `json:"oauthTokenUrl"`
	OAuthScope        string `json:"oauthScope"`

	// Сервер
	Port    string `json:"port"`
	SeedDir string `json:"seedDir"`
	DBURL   string `json:"dbUrl"` // пусто = только in-memory
}

func def() Config {
	return Config{
		APIBaseURL: "http://localhost:7071",
		AuthMode:   "none",
		Port:       "7071",
		SeedDir:    "seed",
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// FromEnv: JSON (если файл есть) + ENV поверх. Флаги поверх ENV
// накладывает сам CLI.
func FromEnv(jsonPath string) Config {
	cfg := def()
	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg.APIBaseURL = getenv("LABTRACK_API_URL", cfg.APIBaseURL)
	cfg.AuthMode = getenv("LABTRACK_AUTH_MODE", cfg.AuthMode)
	cfg.FunctionKey = getenv("LABTRACK_FUNCTION_KEY", cfg.FunctionKey)
	cfg.OAuthClientID = getenv("LABTRACK_OAUTH_CLIENT_ID", cfg.OAuthClientID)
	cfg.OAuthClientSecret = getenv("LABTRACK_OAUTH_CLIENT_SECRET", cfg.OAuthClientSecret)
	cfg.OAuthTokenURL = getenv("LABTRACK_OAUTH_TOKEN_URL", cfg.OAuthTokenURL)
	cfg.OAuthScope = getenv("LABTRACK_OAUTH_SCOPE", cfg.OAuthScope)
	cfg.Port = getenv("LABTRACK_PORT", cfg.Port)
	cfg.SeedDir = getenv("LABTRACK_SEED_DIR", cfg.SeedDir)
	cfg.DBURL = getenv("LABTRACK_DB_URL", cfg.DBURL)
	return cfg
}
