package config

// ApplyNamingDefaults sets default values for any unspecified NamingConfig
// fields.
func ApplyNamingDefaults(cfg *NamingConfig) {
	applyLoggingDefaults(&cfg.Logging)

	if cfg.ServiceAddress == "" {
		cfg.ServiceAddress = ":7070"
	}
	if cfg.RegistrationAddress == "" {
		cfg.RegistrationAddress = ":7071"
	}
	if cfg.ReplicationThreshold == 0 {
		cfg.ReplicationThreshold = 20
	}
	if cfg.Placement == "" {
		cfg.Placement = "round_robin"
	}
}

// ApplyStorageDefaults sets default values for any unspecified
// StorageConfig fields.
func ApplyStorageDefaults(cfg *StorageConfig) {
	applyLoggingDefaults(&cfg.Logging)

	if cfg.Backend == "" {
		cfg.Backend = "local"
	}
	if cfg.Local == nil {
		cfg.Local = make(map[string]any)
	}
	if cfg.S3 == nil {
		cfg.S3 = make(map[string]any)
	}
	if _, ok := cfg.Local["root"]; !ok {
		cfg.Local["root"] = "/tmp/nsfs-storage"
	}
	if cfg.ClientAddress == "" {
		cfg.ClientAddress = ":0"
	}
	if cfg.CommandAddress == "" {
		cfg.CommandAddress = ":0"
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
}

// DefaultNamingConfig returns a NamingConfig with all default values
// applied. Useful for tests and for generating sample config files.
func DefaultNamingConfig() *NamingConfig {
	cfg := &NamingConfig{}
	ApplyNamingDefaults(cfg)
	return cfg
}

// DefaultStorageConfig returns a StorageConfig with all default values
// applied.
func DefaultStorageConfig() *StorageConfig {
	cfg := &StorageConfig{Hostname: "localhost", NamingAddress: "127.0.0.1:7071"}
	ApplyStorageDefaults(cfg)
	return cfg
}
