package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/dtypegen/errors"
)

// FileName is the config file looked up in the project tree and user config dir
const FileName = "dtypegen.toml"

// EnvPrefix prefixes environment overrides: DTYPEGEN_GENERATOR_STRICT_REGIONS=true
const EnvPrefix = "DTYPEGEN"

var globalConfig *Config
var viperInstance *viper.Viper

// explicitPath is the --config file, merged above project and user files
var explicitPath string

// SetExplicitPath registers a config file given on the command line.
// It must be called before the first Load.
func SetExplicitPath(path string) {
	explicitPath = path
	Reset()
}

// Load reads the dtypegen configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance backing Load
func GetViper() (*viper.Viper, error) {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapInvalidConfig(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of defaults.
// Environment variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if err := mergeFile(v, configPath, SourceExplicit, map[string]SourceInfo{}); err != nil {
		return nil, err
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// UserConfigPath returns ~/.config/dtypegen/dtypegen.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dtypegen", FileName)
}

// FindProjectConfig searches for dtypegen.toml from dir up to the filesystem root.
// Returns the first path found, or "" if none exists.
func FindProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ConfigFiles lists the files that take part in Load, lowest precedence first.
// Only files that exist are returned, except an explicit path which is always kept.
func ConfigFiles() []SourceInfo {
	var files []SourceInfo

	if user := UserConfigPath(); user != "" {
		if _, err := os.Stat(user); err == nil {
			files = append(files, SourceInfo{Source: SourceUser, Path: user})
		}
	}
	if wd, err := os.Getwd(); err == nil {
		if project := FindProjectConfig(wd); project != "" {
			files = append(files, SourceInfo{Source: SourceProject, Path: project})
		}
	}
	if explicitPath != "" {
		files = append(files, SourceInfo{Source: SourceExplicit, Path: explicitPath})
	}
	return files
}

// mergeConfigFiles merges configuration files in precedence order.
// Precedence (lowest to highest): defaults < user < project < --config < env vars
func mergeConfigFiles(v *viper.Viper) error {
	for _, f := range ConfigFiles() {
		if err := mergeFile(v, f.Path, f.Source, ConfigSources); err != nil {
			return err
		}
	}
	return nil
}

// mergeFile deep-merges one TOML file into v and records where each key came from
func mergeFile(v *viper.Viper, path string, source ConfigSource, sources map[string]SourceInfo) error {
	fileViper := viper.New()
	fileViper.SetConfigFile(path)
	fileViper.SetConfigType("toml")

	if err := fileViper.ReadInConfig(); err != nil {
		return errors.WrapInvalidConfig(err, "failed to read config file "+path)
	}
	settings := fileViper.AllSettings()
	if err := v.MergeConfigMap(settings); err != nil {
		return errors.WrapInvalidConfig(err, "failed to merge config file "+path)
	}

	for _, key := range fileViper.AllKeys() {
		sources[key] = SourceInfo{Source: source, Path: path}
	}
	return nil
}
