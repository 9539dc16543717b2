package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultsValidateWithItems(t *testing.T) {
	cfg := Defaults()
	cfg.Items = []string{"T4_BAG"}
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
items = ["T4_BAG", "T5_BAG"]

[scan]
min_profit_pct = 5.0
profit_mode = "spread"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"T4_BAG", "T5_BAG"}, cfg.Items)
	assert.Equal(t, 5.0, cfg.Scan.MinProfitPct)
	assert.Equal(t, "spread", cfg.Scan.ProfitMode)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.04, cfg.Taxes.TransactionTaxPct)
	assert.Equal(t, "https://east.albion-online-data.com", cfg.API.RegionHost)
	assert.Equal(t, "xlsx", cfg.Export.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `items = ["T4_BAG"]`)

	t.Setenv("ALBIONFLIP_ITEMS", "T5_BAG, T6_BAG")
	t.Setenv("ALBIONFLIP_SCAN_MIN_PROFIT_PCT", "12.5")
	t.Setenv("ALBIONFLIP_SCAN_PRICE_FLOOR", "250")
	t.Setenv("ALBIONFLIP_S3_USE_SSL", "false")
	t.Setenv("ALBIONFLIP_NOTIFY_DISCORD_WEBHOOK_URL", "https://discord.example/hook")
	t.Setenv("ALBIONFLIP_MODE", "watch")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"T5_BAG", "T6_BAG"}, cfg.Items)
	assert.Equal(t, 12.5, cfg.Scan.MinProfitPct)
	assert.Equal(t, 250, cfg.Scan.PriceFloor)
	assert.False(t, cfg.S3.UseSSL)
	assert.Equal(t, "https://discord.example/hook", cfg.Notify.DiscordWebhookURL)
	assert.Equal(t, "watch", cfg.Mode)
}

func TestEnvOverrideIgnoresMalformedNumbers(t *testing.T) {
	path := writeConfig(t, `items = ["T4_BAG"]`)
	t.Setenv("ALBIONFLIP_SCAN_PRICE_FLOOR", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Scan.PriceFloor)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "daemon"
	cfg.LogLevel = "loud"
	cfg.Taxes.TaxRate = 1.5
	cfg.Scan.ProfitMode = "yolo"
	cfg.API.RegionHost = ""
	cfg.Export.Format = "pdf"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, `unknown mode "daemon"`)
	assert.Contains(t, msg, `unknown log_level "loud"`)
	assert.Contains(t, msg, "tax_rate")
	assert.Contains(t, msg, `unknown profit_mode "yolo"`)
	assert.Contains(t, msg, "region_host")
	assert.Contains(t, msg, `unknown format "pdf"`)
	assert.Contains(t, msg, "items must not be empty")
}

func TestValidateRestrictedSourceMustBeCity(t *testing.T) {
	cfg := Defaults()
	cfg.Items = []string{"T4_BAG"}
	cfg.Cities = []string{"Martlock", "Bridgewatch"}
	cfg.Scan.RestrictedSources = []string{"Black Market"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `restricted source "Black Market" is not in cities`)
}

func TestValidateS3OnlyWhenEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Items = []string{"T4_BAG"}
	// Bucket empty: credentials are not required.
	require.NoError(t, cfg.Validate())

	cfg.S3.Bucket = "exports"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_key and secret_key")
}
