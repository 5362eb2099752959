package warehouse

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

// Driver selects the warehouse backend.
type Driver string

const (
	DriverSnowflake Driver = "snowflake"
	DriverPostgres  Driver = "postgres"
)

// identifierPattern restricts database object names so they can be quoted verbatim.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// Config holds the warehouse connection and load settings.
type Config struct {
	// Driver is the backend. Default: snowflake
	Driver Driver

	// Snowflake account locator, e.g. "xy12345.eu-west-1".
	Account  string
	User     string
	Password string
	Role     string

	// Database and Warehouse are selected for the session before loading.
	Database  string
	Warehouse string

	// Schema and Table name the target table. Both are quoted in DDL.
	// Default schema: PUBLIC (snowflake), public (postgres)
	Schema string
	Table  string

	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// BatchSize is the number of rows per insert chunk.
	// Default: 1000
	BatchSize int

	// ConnectTimeout bounds opening and pinging the warehouse.
	// Default: 30s
	ConnectTimeout time.Duration
}

// DefaultConfig returns the default load settings without credentials.
func DefaultConfig() Config {
	return Config{
		Driver:         DriverSnowflake,
		Schema:         "PUBLIC",
		BatchSize:      1000,
		ConnectTimeout: 30 * time.Second,
	}
}

// Validate checks required settings for the selected driver.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSnowflake:
		required := []struct{ name, value string }{
			{"SF_ACCOUNT", c.Account},
			{"SF_USER", c.User},
			{"SF_PASSWORD", c.Password},
			{"SF_DATABASE", c.Database},
			{"SF_WAREHOUSE", c.Warehouse},
		}
		for _, r := range required {
			if r.value == "" {
				return fmt.Errorf("%s is required for the snowflake driver", r.name)
			}
		}
		for _, id := range []string{c.Database, c.Warehouse} {
			if err := ValidateIdentifier(id); err != nil {
				return err
			}
		}
		if c.Role != "" {
			if err := ValidateIdentifier(c.Role); err != nil {
				return err
			}
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}

	if err := ValidateIdentifier(c.Schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	if err := ValidateIdentifier(c.Table); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	if c.BatchSize < 1 || c.BatchSize > 10000 {
		return fmt.Errorf("batch size must be between 1 and 10000, got %d", c.BatchSize)
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive, got %v", c.ConnectTimeout)
	}
	return nil
}

// ValidateIdentifier rejects names that cannot be quoted safely.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// Environment variables:
//   - WAREHOUSE_DRIVER: "snowflake" or "postgres" (default: snowflake)
//   - SF_ACCOUNT, SF_USER, SF_PASSWORD, SF_ROLE, SF_DATABASE, SF_WAREHOUSE
//   - SF_SCHEMA: schema name (default: PUBLIC, or WAREHOUSE_SCHEMA / public for postgres)
//   - SF_TABLE or WAREHOUSE_TABLE: target table
//   - DATABASE_URL: PostgreSQL connection string
//   - WAREHOUSE_BATCH_SIZE: rows per insert chunk (default: 1000)
//   - WAREHOUSE_CONNECT_TIMEOUT: duration string (default: 30s)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if val := os.Getenv("WAREHOUSE_DRIVER"); val != "" {
		cfg.Driver = Driver(val)
	}

	cfg.Account = os.Getenv("SF_ACCOUNT")
	cfg.User = os.Getenv("SF_USER")
	cfg.Password = os.Getenv("SF_PASSWORD")
	cfg.Role = os.Getenv("SF_ROLE")
	cfg.Database = os.Getenv("SF_DATABASE")
	cfg.Warehouse = os.Getenv("SF_WAREHOUSE")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if cfg.Driver == DriverPostgres {
		cfg.Schema = "public"
		if val := os.Getenv("WAREHOUSE_SCHEMA"); val != "" {
			cfg.Schema = val
		}
	} else if val := os.Getenv("SF_SCHEMA"); val != "" {
		cfg.Schema = val
	}

	cfg.Table = os.Getenv("SF_TABLE")
	if val := os.Getenv("WAREHOUSE_TABLE"); val != "" {
		cfg.Table = val
	}

	if val := os.Getenv("WAREHOUSE_BATCH_SIZE"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid WAREHOUSE_BATCH_SIZE: %v", err)
		}
		cfg.BatchSize = parsed
	}

	if val := os.Getenv("WAREHOUSE_CONNECT_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid WAREHOUSE_CONNECT_TIMEOUT: %v (expected format: '30s', '1m')", err)
		}
		cfg.ConnectTimeout = parsed
	}

	return cfg, nil
}
