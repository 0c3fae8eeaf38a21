package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// NamingConfig represents the complete configuration of a naming server
// process.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (NSFS_*)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
type NamingConfig struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// ServiceAddress is the listen address for the client-facing Service
	// RPC endpoint (lock/unlock, tree queries, storage resolution).
	ServiceAddress string `mapstructure:"service_address" validate:"required"`

	// RegistrationAddress is the listen address for the Registration RPC
	// endpoint storage servers announce themselves to.
	RegistrationAddress string `mapstructure:"registration_address" validate:"required"`

	// ReplicationThreshold is the number of consecutive shared locks a
	// file tolerates before the naming server attempts to add a replica.
	ReplicationThreshold int `mapstructure:"replication_threshold" validate:"required,gt=0"`

	// Placement selects the storage-selection policy new files are
	// assigned with. Valid values: round_robin, fixed_primary.
	Placement string `mapstructure:"placement" validate:"required,oneof=round_robin fixed_primary"`
}

// StorageConfig represents the complete configuration of a storage server
// process.
type StorageConfig struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// Hostname names this storage server in its own log output. It is not
	// sent to the naming server: registration announces the listen
	// addresses of ClientAddress/CommandAddress, and the naming server talks
	// to it over those.
	Hostname string `mapstructure:"hostname" validate:"required"`

	// ClientAddress is the listen address for the client-facing Storage
	// RPC endpoint (size/read/write).
	ClientAddress string `mapstructure:"client_address" validate:"required"`

	// CommandAddress is the listen address for the naming-facing Command
	// RPC endpoint (create/delete/copy).
	CommandAddress string `mapstructure:"command_address" validate:"required"`

	// NamingAddress is the naming server's Registration endpoint address
	// this storage server announces itself to on startup.
	NamingAddress string `mapstructure:"naming_address" validate:"required"`

	// Backend selects the storageengine.Engine implementation. Valid
	// values: local, s3.
	Backend string `mapstructure:"backend" validate:"required,oneof=local s3"`

	// Local contains configuration specific to the local backend.
	// Only used when Backend = "local".
	Local map[string]any `mapstructure:"local"`

	// S3 contains configuration specific to the s3 backend.
	// Only used when Backend = "s3".
	S3 map[string]any `mapstructure:"s3"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// LoadNaming loads a NamingConfig from file, environment, and defaults.
func LoadNaming(configPath string) (*NamingConfig, error) {
	v := viper.New()
	setupViper(v, configPath, "naming")
	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg NamingConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal naming config: %w", err)
	}

	ApplyNamingDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("naming configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadStorage loads a StorageConfig from file, environment, and defaults.
func LoadStorage(configPath string) (*StorageConfig, error) {
	v := viper.New()
	setupViper(v, configPath, "storage")
	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg StorageConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage config: %w", err)
	}

	ApplyStorageDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("storage configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// setupViper configures viper with environment variable and config file
// support. role names the default config file ("naming" or "storage") so
// both processes can share a config directory without colliding.
func setupViper(v *viper.Viper, configPath, role string) {
	v.SetEnvPrefix("NSFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only overrides keys viper already knows from a config
	// file, so bind every key explicitly for NSFS_* variables to reach
	// Unmarshal.
	keys := []string{"logging.level"}
	if role == "naming" {
		keys = append(keys, "service_address", "registration_address", "replication_threshold", "placement")
	} else {
		keys = append(keys, "hostname", "client_address", "command_address", "naming_address", "backend", "local.root")
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}

	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.SetConfigName(role)
	v.SetConfigType("yaml")
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path, preferring
// XDG_CONFIG_HOME, then ~/.config, then the current directory.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "nsfs")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "nsfs")
}
