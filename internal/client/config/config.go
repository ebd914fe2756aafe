package config

import "github.com/dmitrijs2005/oibkeeper/internal/flagx"

// Config holds runtime settings for the oibkeeper CLI.
type Config struct {
	StorageDSN  string
	HistoryKey  string
	LogLevel    string
	LogFormat   string
	MetricsFile string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageDSN = "sqlite://oib.db"
	c.HistoryKey = "oibHistory"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.MetricsFile = ""
}

// LoadConfig builds a Config from defaults, then the optional config file,
// then flags found in args (usually os.Args[1:]). Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValueFlags lists every flag that consumes the following word, so the
// caller can tell command words apart from flag values.
func ValueFlags() []string {
	return append(append([]string{}, flagx.ConfigFlags...), ownFlags...)
}
