// Package config manages Rufus configuration.
//
// Configuration comes from three sources, in increasing precedence:
//  1. Built-in defaults (NewConfig)
//  2. The optional .rufus YAML profile file (per-site overrides)
//  3. CLI flags parsed in cmd/rufus
//
// The Config struct is populated once at startup, validated with Validate,
// and passed through the application by dependency injection rather than
// global state.
package config
