package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/LeJamon/carbond/internal/core/principal"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if config.GRPC.Enabled {
		if err := validateGRPCConfig(&config.GRPC); err != nil {
			return fmt.Errorf("grpc config validation failed: %w", err)
		}
	}
	if err := validateLedgerConfig(&config.Ledger); err != nil {
		return fmt.Errorf("ledger config validation failed: %w", err)
	}
	if err := config.NodeDB.Validate(); err != nil {
		return fmt.Errorf("node_db validation failed: %w", err)
	}
	if config.Database.Enabled() {
		if err := config.Database.Validate(); err != nil {
			return fmt.Errorf("database validation failed: %w", err)
		}
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}
	return nil
}

func validateServerConfig(server *ServerConfig) error {
	if server.Port < 1 || server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", server.Port)
	}
	if server.Bind != "" && net.ParseIP(server.Bind) == nil && server.Bind != "localhost" {
		return fmt.Errorf("invalid bind address: %s", server.Bind)
	}
	if server.ReadTimeout < 0 || server.RequestTimeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	for _, n := range server.Admin {
		if strings.Contains(n, "/") {
			if _, _, err := net.ParseCIDR(n); err != nil {
				return fmt.Errorf("invalid admin network %q: %w", n, err)
			}
		} else if net.ParseIP(n) == nil {
			return fmt.Errorf("invalid admin address %q", n)
		}
	}
	return nil
}

func validateGRPCConfig(g *GRPCConfig) error {
	if _, _, err := net.SplitHostPort(g.Address); err != nil {
		return fmt.Errorf("invalid address %q: %w", g.Address, err)
	}
	if g.MaxRecvMsgSize <= 0 || g.MaxSendMsgSize <= 0 {
		return fmt.Errorf("message size limits must be positive")
	}
	return nil
}

func validateLedgerConfig(l *LedgerConfig) error {
	if l.Admin == "" {
		return fmt.Errorf("admin principal is required")
	}
	if err := principal.Principal(l.Admin).Validate(); err != nil {
		return fmt.Errorf("invalid admin principal: %w", err)
	}
	if !l.Standalone && l.CloseInterval <= 0 {
		return fmt.Errorf("close_interval must be positive when not standalone")
	}
	if l.MaxLabelLength <= 0 {
		return fmt.Errorf("max_label_length must be positive, got %d", l.MaxLabelLength)
	}
	if l.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive, got %d", l.HistorySize)
	}
	return nil
}

func validateLogConfig(l *LogConfig) error {
	if _, err := l.SlogLevel(); err != nil {
		return err
	}
	switch l.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format %q (text or json)", l.Format)
	}
}
