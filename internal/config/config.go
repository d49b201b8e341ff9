// Package config loads Client configuration from flags, environment
// variables, a config file, and defaults, in that precedence order, the
// same layering this project used for its earlier database-backed
// configuration (see the flags > env > file > defaults comment on Load).
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config is the complete set of options spec.md's client surface exposes.
type Config struct {
	QueryEndpointURL  string `mapstructure:"query_endpoint_url" validate:"required,url"`
	UpdateEndpointURL string `mapstructure:"update_endpoint_url" validate:"required,url"`
	TimeoutMS         int    `mapstructure:"timeout_ms" validate:"gt=0"`
	MaxResults        int    `mapstructure:"max_results" validate:"gt=0"`
	ValidateQuery     bool   `mapstructure:"validate_query"`
	CacheEnabled      bool   `mapstructure:"cache_enabled"`
	CacheMaxEntries   int    `mapstructure:"cache_max_entries" validate:"gte=0"`
	CacheTTLMS        int    `mapstructure:"cache_ttl_ms" validate:"gte=0"`
	RetryAttempts     int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RetryDelayMS      int    `mapstructure:"retry_delay_ms" validate:"gte=0"`
	Debug             bool   `mapstructure:"debug"`
}

// Default returns the configuration spec.md §6 lists as the client's
// defaults, before flags/env/file overrides are layered in.
func Default() Config {
	return Config{
		TimeoutMS:       30000,
		MaxResults:      1000,
		ValidateQuery:   true,
		CacheEnabled:    true,
		CacheMaxEntries: 1000,
		CacheTTLMS:      300000,
		RetryAttempts:   3,
		RetryDelayMS:    1000,
		Debug:           false,
	}
}

// ValidationResult mirrors this project's earlier pattern of reporting
// validation outcomes as a batch rather than failing on the first error.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether Errors is empty; Warnings never block use.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

var validate = validator.New()

// Validate runs struct-tag validation plus the cross-field checks a bare
// tag can't express (a cache size with the cache disabled, a retry delay
// with zero attempts).
func Validate(cfg Config) ValidationResult {
	result := ValidationResult{}

	if err := validate.Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", fe.Field(), describeTag(fe)))
			}
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
	}

	if !cfg.CacheEnabled && cfg.CacheMaxEntries > 0 {
		result.Warnings = append(result.Warnings, "cache_max_entries is set but cache_enabled is false")
	}
	if cfg.RetryAttempts == 0 && cfg.RetryDelayMS > 0 {
		result.Warnings = append(result.Warnings, "retry_delay_ms is set but retry_attempts is 0")
	}

	return result
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation %q", fe.Tag())
	}
}
