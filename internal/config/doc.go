// Package config loads, normalizes, and validates evorun harness settings.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and resolves every artifact path against the
// configured working directory so the rest of the harness only ever sees
// absolute locations. The daemon's own simulation document is not handled
// here; see package simconfig for that.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
