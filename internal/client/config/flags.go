package config

import (
	"flag"
	"fmt"

	"github.com/dmitrijs2005/oibkeeper/internal/flagx"
)

var ownFlags = []string{"-d", "-k", "-l", "-f", "-m"}

// helpFlags take no value, so they stay out of ValueFlags.
var helpFlags = []string{"-h", "-help", "--help"}

// parseFlags overlays cfg with the flags it owns. Unknown flags and command
// words are filtered out first with flagx.FilterArgs. A help flag prints
// usage and yields an error wrapping flag.ErrHelp.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("oibkeeper", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageDSN, "d", cfg.StorageDSN, "storage DSN (sqlite://path, file://dir, mem://localhost/dir)")
	fs.StringVar(&cfg.HistoryKey, "k", cfg.HistoryKey, "storage key holding the history")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json)")
	fs.StringVar(&cfg.MetricsFile, "m", cfg.MetricsFile, "write metrics to this textfile on exit")

	if err := fs.Parse(flagx.FilterArgs(args, append(append([]string{}, ownFlags...), helpFlags...))); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
