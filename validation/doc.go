// Package validation runs struct tag validation for restkit configuration
// types.
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	if err := validation.Struct(cfg); err != nil { ... }
//
// Failures come back as *Error, which lists every offending field by its
// mapstructure (configuration file) name.
package validation
