package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./data/feedstream.db" description:"Path to the SQLite database file"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"3333" description:"HTTP server port"`
	PageSize     int    `long:"page-size" env:"PAGE_SIZE" default:"25" description:"Number of items per page returned by the RSS endpoint"`
	PollInterval int    `long:"poll-interval" env:"POLL_INTERVAL" default:"900" description:"Feed poll interval in seconds"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for feed polling"`
	FeedsFile    string `long:"feeds-file" env:"FEEDS_FILE" description:"Optional YAML file with feed URLs to ingest at startup"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"feedstream/1.0" description:"User agent string for HTTP requests"`
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
		DBPath:       raw.DBPath,
		Port:         raw.Port,
		PageSize:     raw.PageSize,
		PollInterval: raw.PollInterval,
		WorkerCount:  raw.WorkerCount,
		FeedsFile:    raw.FeedsFile,
		UserAgent:    raw.UserAgent,
		Debug:        raw.Debug,
		Version:      GetVersion(),
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
