// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Each package that needs configuration declares its own struct with
// `env` tags and calls Load once at startup:
//
//	type Config struct {
//		DSN string `env:"PG_DSN,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Parsed structs are cached per type, so every consumer of the same
// config type sees the same values.
package config
