// Package cli is the journey command-line client.
//
// Every command is a cobra subcommand that loads the configuration, opens
// the stored session and settings, performs one or two calls against the
// server and prints the result. Diary text is written through the terminal
// editor; tables are rendered with uitable.
//
//	journey register
//	journey login
//	journey diary new --capsule 1m
//	journey capsule openable
//	journey notifications tap <id>
package cli
