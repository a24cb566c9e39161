// Package config loads and validates the TOML configuration file. Every
// tunable threshold in the estimation pipeline is exposed here with its
// unit, so deployments can adjust contact gating and confidence weighting
// without code changes. Loading normalizes paths and fills defaults before
// validation, so a missing file yields a fully usable default config.
package config
