// Package config loads, normalizes, and validates newscast configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and NEWS_TOPICS, optionally seeded from a .env file. The
// Config type centralizes every knob the pipeline and CLI need so output
// directories, provider credentials, and layout defaults are resolved in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and validation errors that name the
// offending key.
package config
