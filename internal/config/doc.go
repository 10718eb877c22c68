// Package config loads, normalizes, and validates orgsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files (or the legacy config.json layout), and honours
// environment fallbacks such as ORGSORT_TARGET_DIR. Validation failures are
// tagged with failure.ErrConfiguration and always surface before a run touches
// the source or target trees.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, lowercase dotted extensions, and explicit policy values.
package config
