package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for errors and returns validation results.
// It returns both errors (fatal) and warnings (non-fatal issues).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	c.Server.validate(result)
	c.Database.validate(result)
	c.Storage.validate(result)
	c.Render.validate(result)
	c.Observability.validate(result)

	return result
}

func (c *ServerConfig) validate(result *ValidationResult) {
	if c.Port < 1 || c.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("invalid port %d", c.Port),
			Hint:    "use a port between 1 and 65535",
		})
	}
	if c.ShutdownTimeout <= 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout is not set; in-flight requests are cut off on stop",
		})
	}
	if c.CORSEnabled && len(c.CORSAllowedOrigins) == 0 {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "server.cors_allowed_origins",
			Message: "CORS is enabled but no origins are allowed; all cross-origin requests will be rejected",
			Hint:    "add origins or \"*\" to server.cors_allowed_origins",
		})
	}
}

func (c *DatabaseConfig) validate(result *ValidationResult) {
	if strings.TrimSpace(c.DSN) != "" {
		return
	}
	if c.Host == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.host",
			Message: "database host is required when no DSN is configured",
		})
	}
	if c.Port < 1 || c.Port > 65535 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.port",
			Message: fmt.Sprintf("invalid port %d", c.Port),
		})
	}
	if c.Database == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.database",
			Message: "database name is required when no DSN is configured",
		})
	}
	switch c.SSLMode {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "database.sslmode",
			Message: fmt.Sprintf("unknown sslmode %q", c.SSLMode),
			Hint:    "use disable, allow, prefer, require, verify-ca, or verify-full",
		})
	}
	if c.Password == "" && c.PasswordFile == "" {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "database.password",
			Message: "no database password configured",
		})
	}
}

func (c *StorageConfig) validate(result *ValidationResult) {
	if c.Endpoint == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "storage.endpoint",
			Message: "object store endpoint is required",
		})
	}
	if c.Bucket == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "storage.bucket",
			Message: "artifact bucket name is required",
		})
	}
	if c.AccessKey == "" || (c.SecretKey == "" && c.SecretKeyFile == "") {
		result.Warnings = append(result.Warnings, ValidationWarning{
			Field:   "storage.access_key",
			Message: "object store credentials are incomplete; uploads will fail unless the store allows anonymous access",
		})
	}
	if c.PresignExpiry < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "storage.presign_expiry",
			Message: "presign expiry cannot be negative",
		})
	}
}

func (c *RenderConfig) validate(result *ValidationResult) {
	if c.NavTimeout < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "render.nav_timeout",
			Message: "navigation timeout cannot be negative",
		})
	}
	if c.Width < 0 || c.Height < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "render.width",
			Message: "viewport dimensions cannot be negative",
		})
	}
}

func (c *ObservabilityConfig) validate(result *ValidationResult) {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.level",
			Message: fmt.Sprintf("unknown log level %q", c.Logging.Level),
			Hint:    "use debug, info, warn, or error",
		})
	}
	switch c.Logging.Format {
	case "", "json", "text":
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.logging.format",
			Message: fmt.Sprintf("unknown log format %q", c.Logging.Format),
			Hint:    "use json or text",
		})
	}
	if c.Logging.ExportsEnabled && c.OTLP.Endpoint == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "observability.otlp.endpoint",
			Message: "log exports are enabled but no OTLP endpoint is configured",
		})
	}
}
