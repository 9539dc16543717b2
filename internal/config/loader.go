package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ALBIONFLIP_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ALBIONFLIP_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject the webhook URL and storage credentials
// at deploy time without touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Item/city selection ──
	setStringSlice(&cfg.Items, "ALBIONFLIP_ITEMS")
	setStringSlice(&cfg.Cities, "ALBIONFLIP_CITIES")

	// ── Taxes ──
	setFloat64(&cfg.Taxes.TransactionTaxPct, "ALBIONFLIP_TAXES_TRANSACTION_TAX_PCT")
	setFloat64(&cfg.Taxes.TaxRate, "ALBIONFLIP_TAXES_TAX_RATE")

	// ── Scan ──
	setFloat64(&cfg.Scan.MinProfitPct, "ALBIONFLIP_SCAN_MIN_PROFIT_PCT")
	setStr(&cfg.Scan.ProfitMode, "ALBIONFLIP_SCAN_PROFIT_MODE")
	setInt(&cfg.Scan.PriceFloor, "ALBIONFLIP_SCAN_PRICE_FLOOR")
	setStringSlice(&cfg.Scan.RestrictedSources, "ALBIONFLIP_SCAN_RESTRICTED_SOURCES")

	// ── API ──
	setStr(&cfg.API.RegionHost, "ALBIONFLIP_API_REGION_HOST")
	setFloat64(&cfg.API.RequestsPerSecond, "ALBIONFLIP_API_REQUESTS_PER_SECOND")

	// ── History ──
	setInt(&cfg.History.TimeScaleHours, "ALBIONFLIP_HISTORY_TIME_SCALE_HOURS")
	setInt(&cfg.History.Retries, "ALBIONFLIP_HISTORY_RETRIES")
	setInt(&cfg.History.Concurrency, "ALBIONFLIP_HISTORY_CONCURRENCY")

	// ── Export ──
	setStr(&cfg.Export.Dir, "ALBIONFLIP_EXPORT_DIR")
	setStr(&cfg.Export.Format, "ALBIONFLIP_EXPORT_FORMAT")
	setInt(&cfg.Export.TopN, "ALBIONFLIP_EXPORT_TOP_N")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "ALBIONFLIP_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "ALBIONFLIP_S3_REGION")
	setStr(&cfg.S3.Bucket, "ALBIONFLIP_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "ALBIONFLIP_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "ALBIONFLIP_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "ALBIONFLIP_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "ALBIONFLIP_S3_FORCE_PATH_STYLE")

	// ── Notify ──
	setStr(&cfg.Notify.DiscordWebhookURL, "ALBIONFLIP_NOTIFY_DISCORD_WEBHOOK_URL")

	// ── Top-level ──
	setStr(&cfg.Mode, "ALBIONFLIP_MODE")
	setStr(&cfg.Schedule, "ALBIONFLIP_SCHEDULE")
	setStr(&cfg.LogLevel, "ALBIONFLIP_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
