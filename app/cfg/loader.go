package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./podsift.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port              string   `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SubscriptionsFile string   `long:"subscriptions-file" env:"SUBSCRIPTIONS_FILE" description:"Optional YAML file with feed URLs to subscribe at startup"`
	WorkerCount       int      `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for feed refreshing"`
	SchedulerInterval int      `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler tick interval in seconds"`
	RefreshInterval   int      `long:"refresh-interval" env:"REFRESH_INTERVAL" default:"900" description:"Per-feed refresh interval in seconds"`
	FetchTimeout      int      `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Timeout for a single feed fetch in seconds"`
	FetchMirrors      []string `long:"fetch-mirror" env:"FETCH_MIRRORS" env-delim:"," description:"Alternate fetch endpoint prefixes tried in order when the direct fetch fails"`
	InsertBatchSize   int      `long:"insert-batch-size" env:"INSERT_BATCH_SIZE" default:"50" description:"Episode insert batch size"`
	RecentWindowDays  int      `long:"recent-window-days" env:"RECENT_WINDOW_DAYS" default:"7" description:"Episodes published within this window are flagged as new"`
	APIAccessKey      string   `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"podsift/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		Port:              raw.Port,
		SubscriptionsFile: raw.SubscriptionsFile,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		RefreshInterval:   raw.RefreshInterval,
		FetchTimeout:      raw.FetchTimeout,
		FetchMirrors:      raw.FetchMirrors,
		InsertBatchSize:   raw.InsertBatchSize,
		RecentWindowDays:  raw.RecentWindowDays,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
