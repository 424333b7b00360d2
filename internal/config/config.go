package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the top-level gitmetrics configuration.
type Config struct {
	Author    string   `mapstructure:"author"`
	ScanPaths []string `mapstructure:"scan_paths"`
	Workers   int      `mapstructure:"workers"`
	Exclude   Exclude  `mapstructure:"exclude"`
	Output    Output   `mapstructure:"output"`
}

// Exclude defines the global file-exclusion sets applied when counting
// lines. Project-type profiles layer their own exclusions on top of these.
type Exclude struct {
	Dirs       []string `mapstructure:"dirs"`
	Extensions []string `mapstructure:"extensions"`
	Filenames  []string `mapstructure:"filenames"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("author", "")
	v.SetDefault("scan_paths", DefaultScanPaths)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("exclude.dirs", DefaultExcludeDirs)
	v.SetDefault("exclude.extensions", DefaultExcludeExtensions)
	v.SetDefault("exclude.filenames", DefaultExcludeFilenames)
	v.SetDefault("output.color", DefaultOutput.Color)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	// Expand paths.
	for i, p := range cfg.ScanPaths {
		cfg.ScanPaths[i] = expandPath(p)
	}

	return &cfg, nil
}

// DBPath returns the full path to the SQLite cache database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
