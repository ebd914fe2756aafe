// Package config loads runtime configuration for the oibkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are YAML, anything else is JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   storage DSN (default "sqlite://oib.db")
//	-k string   history key (default "oibHistory")
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text, json
//	-m string   metrics textfile written on exit
//	-h, -help   print usage; LoadConfig returns an error wrapping flag.ErrHelp
//
// # File schema
//
//	storage_dsn: file:///home/me/.oibkeeper
//	history_key: oibHistory
//	log_level: debug
//	log_format: json
//	metrics_file: /var/lib/node_exporter/oibkeeper.prom
//
// Words that are not flags are left for the command dispatcher.
package config
