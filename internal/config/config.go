// Package config loads and validates application configuration from
// environment variables and optional config files.
package config

// Config holds all application configuration, organized into logical
// groups.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Pagination PaginationConfig `mapstructure:"pagination" validate:"required"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains the database settings. An empty URL selects the
// in-memory backend, which keeps local development dependency-free.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// PaginationConfig bounds page requests and cursor-session lifetimes.
type PaginationConfig struct {
	// DefaultPageSize is used when a request does not name a page size.
	DefaultPageSize int `mapstructure:"default_page_size" validate:"required,gt=0"`

	// MaxPageSize caps what a single request may ask for.
	MaxPageSize int `mapstructure:"max_page_size" validate:"required,gtefield=DefaultPageSize"`

	// SessionTTLMinutes is how long an idle cursor session survives before
	// the janitor discards it.
	SessionTTLMinutes int `mapstructure:"session_ttl_minutes" validate:"required,gt=0"`
}
