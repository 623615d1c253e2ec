// Package config loads runtime configuration for the journey CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional YAML file: ~/.journey.yaml, ./.journey.yaml, or the file
//     named by --config.
//  3. Environment variables with the JOURNEY_ prefix, e.g.
//     JOURNEY_SERVER_ADDR.
//  4. Command-line flags bound with BindFlags.
//
// Keys
//
//	server_addr   host:port of the backend gRPC endpoint
//	data_dir      where the session and settings are kept (~ is expanded)
//	lang          preferred language of server messages, e.g. "ko"
//	timeout       per-command deadline, e.g. "10s"
package config
