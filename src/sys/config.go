package sys

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultCatalogURL       = "https://raw.githubusercontent.com/lambda-client/cape-api/capes/capes.json"
	DefaultSessionServerURL = "https://sessionserver.mojang.com/session/minecraft/profile"
	DefaultHTTPTimeout      = 10 * time.Second
)

type Config struct {
	Token            string
	GuildID          string
	DatabasePath     string
	CatalogURL       string
	SessionServerURL string
	HTTPTimeout      time.Duration
	Silent           bool
}

var GlobalConfig *Config

// LoadConfig initializes the configuration from environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	token := os.Getenv("DISCORD_TOKEN")
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		folder := "."
		if info, err := os.Stat("data"); err == nil && info.IsDir() {
			folder = "./data"
		}
		dbPath = filepath.Join(folder, GetProjectName()+".db")
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		catalogURL = DefaultCatalogURL
	}
	sessionServerURL := os.Getenv("SESSION_SERVER_URL")
	if sessionServerURL == "" {
		sessionServerURL = DefaultSessionServerURL
	}

	httpTimeout := DefaultHTTPTimeout
	if timeoutStr := os.Getenv("HTTP_TIMEOUT_SECONDS"); timeoutStr != "" {
		if secs, err := strconv.Atoi(timeoutStr); err == nil && secs > 0 {
			httpTimeout = time.Duration(secs) * time.Second
		}
	}

	cfg := &Config{
		Token:            token,
		GuildID:          os.Getenv("GUILD_ID"),
		DatabasePath:     fmt.Sprintf("%s?_journal_mode=WAL&_timeout=5000", dbPath),
		CatalogURL:       catalogURL,
		SessionServerURL: sessionServerURL,
		HTTPTimeout:      httpTimeout,
		Silent:           silent,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	GlobalConfig = cfg
	return cfg, nil
}

// Validate ensures the configuration is valid and meets requirements.
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}

	// Basic Snowflake validation for GuildID if provided
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}

	return nil
}

func GetProjectName() string {
	exePath, err := os.Executable()
	projectName := "capebot"
	if err == nil {
		projectName = filepath.Base(exePath)
		projectName = strings.TrimSuffix(projectName, ".exe")

		if projectName == "main" || strings.HasPrefix(projectName, "go_build_") {
			if modData, err := os.ReadFile("go.mod"); err == nil {
				lines := strings.Split(string(modData), "\n")
				if len(lines) > 0 && strings.HasPrefix(lines[0], "module ") {
					parts := strings.Split(lines[0], "/")
					projectName = strings.TrimSpace(parts[len(parts)-1])
				}
			}
		}
	}
	return projectName
}
