package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"msgstats/internal/report"
	"msgstats/internal/stats"
)

type Config struct {
	Format  report.Format
	SortBy  stats.SortKey
	OutPath string // "" -> stdout
	Stream  bool   // false (podrazumevano) -> ceo fajl u memoriju, pa Aggregate
	Verbose bool
}

// Load reads envFile (if present) into the process environment and builds
// the config from MSGSTATS_* variables. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	format, err := report.ParseFormat(getenv("MSGSTATS_FORMAT", string(report.Text)))
	if err != nil {
		return nil, fmt.Errorf("config: MSGSTATS_FORMAT: %w", err)
	}
	sortBy, err := stats.ParseSortKey(getenv("MSGSTATS_SORT", "name"))
	if err != nil {
		return nil, fmt.Errorf("config: MSGSTATS_SORT: %w", err)
	}
	stream, err := getenvBool("MSGSTATS_STREAM", false)
	if err != nil {
		return nil, err
	}
	verbose, err := getenvBool("MSGSTATS_VERBOSE", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		Format:  format,
		SortBy:  sortBy,
		OutPath: getenv("MSGSTATS_OUT", ""),
		Stream:  stream,
		Verbose: verbose,
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("config: %s: invalid boolean %q", key, v)
	}
	return b, nil
}
