package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CARBOND_LEDGER_ADMIN.
const EnvPrefix = "CARBOND"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (TOML), when path is non-empty
// 3. Environment variables (CARBOND_ prefix)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		if err := loadMainConfig(v, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = path

	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

// loadMainConfig reads the configuration file
func loadMainConfig(v *viper.Viper, configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return nil
}

// ReloadConfig reloads configuration from the same path
func ReloadConfig(existingConfig *Config) (*Config, error) {
	return LoadConfig(existingConfig.GetConfigPath())
}

// ExampleConfig is a commented starting point for carbond.toml
const ExampleConfig = `# carbond configuration

[server]
bind = "127.0.0.1"
port = 5005
read_timeout = "10s"
request_timeout = "30s"
websocket = true
admin = ["127.0.0.0/8", "::1/128"]

[grpc]
enabled = false
address = "127.0.0.1:50051"

[ledger]
# principal allowed to add issuers and validators (see "carbond keygen")
admin = ""
standalone = true
close_interval = "5s"
require_signatures = false
default_credit_price = 0
max_label_length = 256
history_size = 256

[node_db]
# memory, pebble or leveldb
type = "memory"
path = ""
compression = "lz4"

[database]
# "", "sqlite" or "postgres"
driver = ""
path = ""

[log]
level = "info"
format = "text"

[metrics]
enabled = true
`

// SaveExampleConfig writes ExampleConfig to path, refusing to overwrite.
func SaveExampleConfig(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	defer f.Close()
	_, err = f.WriteString(ExampleConfig)
	return err
}
