// Package config wraps a process-wide viper singleton: one Initialize()
// call at startup, environment variables bound with a project prefix, an
// optional discovered config.yaml, and typed accessors for the rest of
// the codebase.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper singleton. Each call replaces it with a fresh
// instance rebuilt from the environment and the discovered config file.
func Initialize() error {
	var err error
	v, err = newViper()
	return err
}

func newViper() (*viper.Viper, error) {
	vip := viper.New()
	vip.SetConfigType("yaml")

	configFileSet := false
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			candidate := filepath.Join(dir, ".tg", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				vip.SetConfigFile(candidate)
				configFileSet = true
				break
			}
		}
	}
	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			candidate := filepath.Join(configDir, "tg", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				vip.SetConfigFile(candidate)
				configFileSet = true
			}
		}
	}
	if !configFileSet {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".tg", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				vip.SetConfigFile(candidate)
				configFileSet = true
			}
		}
	}

	vip.SetEnvPrefix("TG")
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("force-tags", "")
	vip.SetDefault("filter-tags", "")
	vip.SetDefault("output-format", "table")
	vip.SetDefault("db", ".tg/tasks.db")
	vip.SetDefault("list.default-type", "sequential")
	vip.SetDefault("actor", "")
	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.file", "")
	vip.SetDefault("http.addr", ":8080")

	if configFileSet {
		if err := vip.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return vip, nil
}

// Get returns the process singleton, initializing it with defaults if
// Initialize was never called (e.g. in unit tests that only need defaults).
func Get() *viper.Viper {
	if v == nil {
		v, _ = newViper()
	}
	return v
}

// WatchNonAccessSettings enables live-reload of the config file via
// fsnotify. The whole file is reloaded; force-tags/filter-tags reach the
// façade only through the access.Scope snapshot taken at construction, so a
// reload does not change an existing Scope.
func WatchNonAccessSettings(onChange func()) {
	Get().OnConfigChange(func(_ fsnotify.Event) {
		if onChange != nil {
			onChange()
		}
	})
	Get().WatchConfig()
}

// CommaList splits a comma-separated config value into a trimmed,
// non-empty slice.
func CommaList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ForceTags returns the configured FORCE_TAGS list.
func ForceTags() []string { return CommaList(Get().GetString("force-tags")) }

// FilterTags returns the configured FILTER_TAGS list.
func FilterTags() []string { return CommaList(Get().GetString("filter-tags")) }

// OutputFormat returns the configured OUTPUT_FORMAT, one of
// table|vertical|json|yaml|xml.
func OutputFormat() string { return Get().GetString("output-format") }

// DBPath returns the configured database file path.
func DBPath() string { return Get().GetString("db") }

// LogLevel returns the configured slog level name.
func LogLevel() string { return Get().GetString("log.level") }

// LogFile returns the configured rotating log file path, empty for none.
func LogFile() string { return Get().GetString("log.file") }

// Actor returns the configured actor name recorded as history UserContext.
func Actor() string { return Get().GetString("actor") }

// HTTPAddr returns the listen address for `tg serve`.
func HTTPAddr() string { return Get().GetString("http.addr") }
