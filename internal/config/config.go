package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/LeJamon/carbond/internal/storage/nodestore"
	"github.com/LeJamon/carbond/internal/storage/relationaldb"
)

// Config represents the complete carbond configuration
type Config struct {
	Server   ServerConfig        `toml:"server" mapstructure:"server"`
	GRPC     GRPCConfig          `toml:"grpc" mapstructure:"grpc"`
	Ledger   LedgerConfig        `toml:"ledger" mapstructure:"ledger"`
	NodeDB   nodestore.Config    `toml:"node_db" mapstructure:"node_db"`
	Database relationaldb.Config `toml:"database" mapstructure:"database"`
	Log      LogConfig           `toml:"log" mapstructure:"log"`
	Metrics  MetricsConfig       `toml:"metrics" mapstructure:"metrics"`

	configPath string `toml:"-" mapstructure:"-"`
}

// ServerConfig represents the [server] section: the HTTP listener serving
// JSON-RPC, WebSocket, health and metrics.
type ServerConfig struct {
	Bind           string        `toml:"bind" mapstructure:"bind"`
	Port           int           `toml:"port" mapstructure:"port"`
	ReadTimeout    time.Duration `toml:"read_timeout" mapstructure:"read_timeout"`
	RequestTimeout time.Duration `toml:"request_timeout" mapstructure:"request_timeout"`
	WebSocket      bool          `toml:"websocket" mapstructure:"websocket"`

	// Admin lists the networks granted the admin role, e.g. "127.0.0.1/32"
	Admin []string `toml:"admin" mapstructure:"admin"`
}

// Address returns bind:port
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))
}

// GRPCConfig represents the [grpc] section
type GRPCConfig struct {
	Enabled        bool   `toml:"enabled" mapstructure:"enabled"`
	Address        string `toml:"address" mapstructure:"address"`
	MaxRecvMsgSize int    `toml:"max_recv_msg_size" mapstructure:"max_recv_msg_size"`
	MaxSendMsgSize int    `toml:"max_send_msg_size" mapstructure:"max_send_msg_size"`
}

// LedgerConfig represents the [ledger] section
type LedgerConfig struct {
	// Admin is the principal allowed to add issuers and validators
	Admin string `toml:"admin" mapstructure:"admin"`

	// Standalone enables ledger_accept. Otherwise ledgers close every CloseInterval.
	Standalone    bool          `toml:"standalone" mapstructure:"standalone"`
	CloseInterval time.Duration `toml:"close_interval" mapstructure:"close_interval"`

	RequireSignatures  bool   `toml:"require_signatures" mapstructure:"require_signatures"`
	DefaultCreditPrice uint64 `toml:"default_credit_price" mapstructure:"default_credit_price"`
	MaxLabelLength     int    `toml:"max_label_length" mapstructure:"max_label_length"`
	HistorySize        int    `toml:"history_size" mapstructure:"history_size"`
}

// LogConfig represents the [log] section
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"` // text or json
}

// SlogLevel parses Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", l.Level)
	}
	return level, nil
}

// MetricsConfig represents the [metrics] section
type MetricsConfig struct {
	Enabled bool `toml:"enabled" mapstructure:"enabled"`
}

// GetConfigPath returns the path of the loaded file, empty if none was read
func (c *Config) GetConfigPath() string {
	return c.configPath
}
