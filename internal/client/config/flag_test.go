package config

import (
	"flag"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-d", "file:///tmp/oib", "-k", "k2", "-l", "debug", "-f", "json", "-m", "/tmp/oib.prom"},
			expected: &Config{
				StorageDSN: "file:///tmp/oib", HistoryKey: "k2", LogLevel: "debug", LogFormat: "json", MetricsFile: "/tmp/oib.prom",
			},
		},
		{
			name:     "commands and foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "pin", "12345678903", "-d", "x.db"},
			expected: &Config{StorageDSN: "x.db"},
		},
		{
			name:     "equals form",
			args:     []string{"-l=error"},
			expected: &Config{LogLevel: "error"},
		},
		{
			name:    "flag without value",
			args:    []string{"-d"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_Help(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "short", args: []string{"-h"}},
		{name: "long", args: []string{"-help"}},
		{name: "double dash", args: []string{"--help"}},
		{name: "after other flags", args: []string{"-d", "x.db", "-h"}},
		{name: "before a command", args: []string{"-h", "list"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseFlags(&Config{}, tt.args)
			require.ErrorIs(t, err, flag.ErrHelp)
		})
	}
}

func TestLoadConfig_Help(t *testing.T) {
	cfg, err := LoadConfig([]string{"-help", "list"})
	require.ErrorIs(t, err, flag.ErrHelp)
	assert.Nil(t, cfg)
}

func TestValueFlags_ExcludeHelp(t *testing.T) {
	assert.NotContains(t, ValueFlags(), "-h")
	assert.NotContains(t, ValueFlags(), "-help")
}
