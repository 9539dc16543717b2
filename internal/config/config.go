// Package config defines the top-level configuration for the flipping
// scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ALBIONFLIP_* environment
// variables.
type Config struct {
	// Items is the set of item identifiers to scan, e.g. "T4_BAG".
	Items []string `toml:"items"`
	// Cities is the set of market locations to compare.
	Cities []string `toml:"cities"`

	Taxes   TaxesConfig   `toml:"taxes"`
	Scan    ScanConfig    `toml:"scan"`
	API     APIConfig     `toml:"api"`
	History HistoryConfig `toml:"history"`
	Export  ExportConfig  `toml:"export"`
	S3      S3Config      `toml:"s3"`
	Notify  NotifyConfig  `toml:"notify"`

	// Mode selects the run mode: "once" runs a single scan cycle, "watch"
	// repeats the cycle on the configured cron schedule.
	Mode string `toml:"mode"`
	// Schedule is the cron expression used by watch mode.
	Schedule string `toml:"schedule"`
	LogLevel string `toml:"log_level"`
}

// TaxesConfig holds the market tax fractions.
type TaxesConfig struct {
	// TransactionTaxPct is the buy-leg tax as a fraction, e.g. 0.04.
	TransactionTaxPct float64 `toml:"transaction_tax_pct"`
	// TaxRate is the sell-leg listing tax as a fraction, e.g. 0.065.
	TaxRate float64 `toml:"tax_rate"`
}

// ScanConfig holds profit-threshold and pair-eligibility parameters.
type ScanConfig struct {
	// MinProfitPct is the minimum qualifying net profit percentage.
	MinProfitPct float64 `toml:"min_profit_pct"`
	// ProfitMode selects the net-percentage formula: "margin" (relative to
	// committed capital) or "spread" (relative to gross spread).
	ProfitMode string `toml:"profit_mode"`
	// PriceFloor rejects prices at or below this value as stale/placeholder
	// data.
	PriceFloor int `toml:"price_floor"`
	// RestrictedSources are venues that may be sell destinations but never
	// buy sources (e.g. the Black Market).
	RestrictedSources []string `toml:"restricted_sources"`
}

// APIConfig holds market-data API endpoint parameters.
type APIConfig struct {
	// RegionHost is the base URL of the price service, e.g.
	// "https://east.albion-online-data.com".
	RegionHost string `toml:"region_host"`
	// RequestsPerSecond caps the outbound request rate.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// HistoryConfig holds historical-backfill parameters.
type HistoryConfig struct {
	// TimeScaleHours is the bucket width requested from the history endpoint.
	TimeScaleHours int `toml:"time_scale_hours"`
	// Retries is the number of additional attempts after a transient failure.
	Retries int `toml:"retries"`
	// Concurrency bounds the parallel lookups for the historical summary.
	Concurrency int `toml:"concurrency"`
}

// ExportConfig holds export-file parameters.
type ExportConfig struct {
	Dir string `toml:"dir"`
	// Format is "xlsx" or "csv".
	Format string `toml:"format"`
	// TopN is the number of ranked opportunities logged as a preview; the
	// export always carries the full list.
	TopN int `toml:"top_n"`
}

// S3Config holds S3-compatible object storage parameters for optional export
// archival. Archival is disabled when Bucket is empty.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// NotifyConfig holds notification channel parameters.
type NotifyConfig struct {
	// DiscordWebhookURL, when set, receives the export file after each run.
	DiscordWebhookURL string `toml:"discord_webhook"`
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Items: []string{},
		Cities: []string{
			"Martlock", "Bridgewatch", "Lymhurst",
			"Fort Sterling", "Thetford", "Caerleon", "Black Market",
		},
		Taxes: TaxesConfig{
			TransactionTaxPct: 0.04,
			TaxRate:           0.065,
		},
		Scan: ScanConfig{
			MinProfitPct:      1.0,
			ProfitMode:        "margin",
			PriceFloor:        100,
			RestrictedSources: []string{"Black Market"},
		},
		API: APIConfig{
			RegionHost:        "https://east.albion-online-data.com",
			RequestsPerSecond: 5,
		},
		History: HistoryConfig{
			TimeScaleHours: 24,
			Retries:        2,
			Concurrency:    4,
		},
		Export: ExportConfig{
			Dir:    "results",
			Format: "xlsx",
			TopN:   10,
		},
		S3: S3Config{
			Region:         "us-east-1",
			UseSSL:         true,
			ForcePathStyle: false,
		},
		Mode:     "once",
		Schedule: "0 * * * *",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"once":  true,
	"watch": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validProfitModes enumerates the accepted values for ScanConfig.ProfitMode.
var validProfitModes = map[string]bool{
	"margin": true,
	"spread": true,
}

// validExportFormats enumerates the accepted values for ExportConfig.Format.
var validExportFormats = map[string]bool{
	"xlsx": true,
	"csv":  true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: once, watch)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if strings.ToLower(c.Mode) == "watch" && strings.TrimSpace(c.Schedule) == "" {
		errs = append(errs, "schedule must be set for watch mode")
	}

	if len(c.Items) == 0 {
		errs = append(errs, "items must not be empty")
	}
	if len(c.Cities) == 0 {
		errs = append(errs, "cities must not be empty")
	}

	// Taxes
	if c.Taxes.TransactionTaxPct < 0 || c.Taxes.TransactionTaxPct >= 1 {
		errs = append(errs, fmt.Sprintf("taxes: transaction_tax_pct must be a fraction in [0,1), got %v", c.Taxes.TransactionTaxPct))
	}
	if c.Taxes.TaxRate < 0 || c.Taxes.TaxRate >= 1 {
		errs = append(errs, fmt.Sprintf("taxes: tax_rate must be a fraction in [0,1), got %v", c.Taxes.TaxRate))
	}

	// Scan
	if !validProfitModes[strings.ToLower(c.Scan.ProfitMode)] {
		errs = append(errs, fmt.Sprintf("scan: unknown profit_mode %q (valid: margin, spread)", c.Scan.ProfitMode))
	}
	if c.Scan.PriceFloor < 0 {
		errs = append(errs, "scan: price_floor must be >= 0")
	}
	for _, v := range c.Scan.RestrictedSources {
		if !contains(c.Cities, v) {
			errs = append(errs, fmt.Sprintf("scan: restricted source %q is not in cities", v))
		}
	}

	// API
	if c.API.RegionHost == "" {
		errs = append(errs, "api: region_host must not be empty")
	}
	if c.API.RequestsPerSecond <= 0 {
		errs = append(errs, "api: requests_per_second must be > 0")
	}

	// History
	if c.History.TimeScaleHours <= 0 {
		errs = append(errs, "history: time_scale_hours must be > 0")
	}
	if c.History.Retries < 0 {
		errs = append(errs, "history: retries must be >= 0")
	}
	if c.History.Concurrency < 1 {
		errs = append(errs, "history: concurrency must be >= 1")
	}

	// Export
	if c.Export.Dir == "" {
		errs = append(errs, "export: dir must not be empty")
	}
	if !validExportFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, fmt.Sprintf("export: unknown format %q (valid: xlsx, csv)", c.Export.Format))
	}
	if c.Export.TopN < 1 {
		errs = append(errs, "export: top_n must be >= 1")
	}

	// S3 — only checked when archival is enabled.
	if c.S3.Bucket != "" {
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty when bucket is set")
		}
		if c.S3.AccessKey == "" || c.S3.SecretKey == "" {
			errs = append(errs, "s3: access_key and secret_key must both be set when bucket is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
