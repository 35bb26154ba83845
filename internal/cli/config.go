package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the settings shared by every rewind command.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	MCP     MCPConfig     `mapstructure:"mcp"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Debug bool   `mapstructure:"debug"`
}

// HistoryConfig holds enhancer settings.
type HistoryConfig struct {
	InitialMessage string `mapstructure:"initial_message"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int  `mapstructure:"port"`
	Metrics    bool `mapstructure:"metrics"`
	Validation bool `mapstructure:"validation"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":       "log.level",
	"debug":           "log.debug",
	"initial-message": "history.initial_message",
	"port":            "server.port",
	"metrics":         "server.metrics",
	"validate":        "server.validation",
	"transport":       "mcp.transport",
	"mcp-port":        "mcp.port",
}

// LoadConfig reads configuration from defaults, an optional YAML file, the
// environment (prefix REWIND_) and flags, in increasing order of precedence.
// An empty path skips the file; flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.debug", false)
	v.SetDefault("history.initial_message", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.validation", true)
	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8081)

	v.SetEnvPrefix("REWIND")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// SlogLevel returns the slog level for the configuration.
// Debug forces slog.LevelDebug; an unknown level name falls back to Info.
func (c LogConfig) SlogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
