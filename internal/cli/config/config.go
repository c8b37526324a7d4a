package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const ConfigFileName = "martillo.json"

// Config represents the project configuration stored in martillo.json
// in the current directory. The API URL is the single origin every
// request goes to; there is no per-command server selection.
type Config struct {
	APIURL string `json:"api_url"`
	Alias  string `json:"alias,omitempty"`
}

// Load reads the configuration, in priority order:
// 1. MARTILLO_API_URL environment variable (also via .env / .env.local)
// 2. martillo.json in the current directory
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	if url := os.Getenv("MARTILLO_API_URL"); url != "" {
		return &Config{APIURL: normalizeURL(url)}, nil
	}

	data, err := os.ReadFile(ConfigFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no %s found in current directory (or set MARTILLO_API_URL)", ConfigFileName)
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFileName, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%s has no api_url. Please add the auction API origin", ConfigFileName)
	}

	cfg.APIURL = normalizeURL(cfg.APIURL)
	return &cfg, nil
}

// Save writes the configuration to martillo.json in the current directory
func Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigFileName, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFileName, err)
	}

	return nil
}

// normalizeURL strips a trailing slash so path joining stays uniform
func normalizeURL(url string) string {
	return strings.TrimRight(url, "/")
}
