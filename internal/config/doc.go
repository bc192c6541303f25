// Package config loads, normalizes, and validates coursemetrics configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CANVAS_TOKEN and CANVAS_BASE_URL. The Config type centralizes the matching
// parameters, column vocabulary, Canvas credentials and output destinations
// so a reconciliation run is configured in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical formats, and clear validation errors.
package config
