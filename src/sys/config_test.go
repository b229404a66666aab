package sys

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingTokenIsFatal(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("GUILD_ID", "")
	t.Setenv("CATALOG_URL", "")
	t.Setenv("SESSION_SERVER_URL", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("SILENT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "test-token", cfg.Token)
	require.Equal(t, DefaultCatalogURL, cfg.CatalogURL)
	require.Equal(t, DefaultSessionServerURL, cfg.SessionServerURL)
	require.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	require.False(t, cfg.Silent)
	require.Contains(t, cfg.DatabasePath, "_journal_mode=WAL")
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("GUILD_ID", "")
	t.Setenv("CATALOG_URL", "https://example.com/capes.json")
	t.Setenv("SESSION_SERVER_URL", "https://example.com/profile")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "https://example.com/capes.json", cfg.CatalogURL)
	require.Equal(t, "https://example.com/profile", cfg.SessionServerURL)
	require.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestConfigValidate_GuildID(t *testing.T) {
	cfg := &Config{Token: "test-token", GuildID: "123"}
	require.Error(t, cfg.Validate())

	cfg.GuildID = "123456789012345678"
	require.NoError(t, cfg.Validate())

	cfg.GuildID = ""
	require.NoError(t, cfg.Validate())
}
