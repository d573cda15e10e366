package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Library
		Lookup
		Notes
		Cache
		Log
	}

	Library struct {
		Root string // Vault root directory
		File string // Collection file path, relative to the root
	}
	Lookup struct {
		RateLimit  int           // Max provider calls per window
		RateWindow time.Duration // Rolling window for the rate gate
	}
	Notes struct {
		Folder string // Folder for generated notes, relative to the root
	}
	Cache struct {
		SweepEnabled  bool
		SweepSchedule string        // Cron format: "0 * * * *" = hourly
		MaxAge        time.Duration // Entries older than this are swept
	}
	Log struct {
		Level string // debug, info, warn, error
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("library_root", ".")
	v.SetDefault("library_file", "Library.book-tracker")
	v.SetDefault("lookup_rate_limit", 60)
	v.SetDefault("lookup_rate_window", "1m")
	v.SetDefault("notes_folder", "Books")
	v.SetDefault("cache_sweep_enabled", false)
	v.SetDefault("cache_sweep_schedule", "0 * * * *") // Hourly at :00
	v.SetDefault("cache_max_age", "1h")
	v.SetDefault("log_level", "info")

	return &Config{
		Library: Library{
			Root: v.GetString("LIBRARY_ROOT"),
			File: v.GetString("LIBRARY_FILE"),
		},
		Lookup: Lookup{
			RateLimit:  v.GetInt("LOOKUP_RATE_LIMIT"),
			RateWindow: v.GetDuration("LOOKUP_RATE_WINDOW"),
		},
		Notes: Notes{
			Folder: v.GetString("NOTES_FOLDER"),
		},
		Cache: Cache{
			SweepEnabled:  v.GetBool("CACHE_SWEEP_ENABLED"),
			SweepSchedule: v.GetString("CACHE_SWEEP_SCHEDULE"),
			MaxAge:        v.GetDuration("CACHE_MAX_AGE"),
		},
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
		},
	}
}
