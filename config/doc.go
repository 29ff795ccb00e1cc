// Package config loads ntfywatch configuration with Viper.
//
// A YAML file is located under ./cmd/<name>/config.yml, ./config.yml or the
// user config directory, an optional .env file is loaded with godotenv, and
// environment variables prefixed with the upper-cased service name override
// individual keys (NTFYWATCH_NTFY_BACKOFF=10s sets ntfy.backoff).
package config
