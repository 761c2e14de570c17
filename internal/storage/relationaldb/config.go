package relationaldb

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and addresses the transaction history database.
// An empty Driver disables it.
type Config struct {
	Driver   string `toml:"driver" mapstructure:"driver"`
	DSN      string `toml:"dsn" mapstructure:"dsn"`
	Path     string `toml:"path" mapstructure:"path"`
	Host     string `toml:"host" mapstructure:"host"`
	Port     int    `toml:"port" mapstructure:"port"`
	Name     string `toml:"name" mapstructure:"name"`
	User     string `toml:"user" mapstructure:"user"`
	Password string `toml:"password" mapstructure:"password"`
	SSLMode  string `toml:"ssl_mode" mapstructure:"ssl_mode"`
}

// Enabled reports whether a driver is configured.
func (c Config) Enabled() bool {
	return c.Driver != ""
}

// normalizedDriver maps accepted aliases to the registered driver name.
func (c Config) normalizedDriver() (string, error) {
	switch c.Driver {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDriver, c.Driver)
	}
}

// Validate checks the configuration for common errors
func (c Config) Validate() error {
	driver, err := c.normalizedDriver()
	if err != nil {
		return err
	}
	if c.DSN != "" {
		return nil
	}

	switch driver {
	case DriverSQLite:
		if c.Path == "" {
			return ErrMissingDatabase
		}
	case DriverPostgres:
		if c.Host == "" {
			return ErrMissingHost
		}
		if c.Port < 0 || c.Port > 65535 {
			return ErrInvalidPort
		}
		if c.Name == "" {
			return ErrMissingDatabase
		}
		switch c.SSLMode {
		case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
		default:
			return fmt.Errorf("invalid SSL mode: %s", c.SSLMode)
		}
	}
	return nil
}

// ConnectionString builds the driver DSN from the config.
func (c Config) ConnectionString() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	driver, err := c.normalizedDriver()
	if err != nil {
		return "", err
	}

	if driver == DriverSQLite {
		return c.Path, nil
	}

	params := url.Values{}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	params.Set("sslmode", sslMode)
	params.Set("application_name", "carbond")

	host := c.Host
	if c.Port != 0 {
		host += ":" + strconv.Itoa(c.Port)
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     "/" + c.Name,
		RawQuery: params.Encode(),
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String(), nil
}
