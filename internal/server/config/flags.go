package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-o string   ops HTTP bind address (health, metrics)
//	-k string   database dialect (postgres or sqlite)
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-f string   data directory
//	-n string   comma-separated notification URLs
//	-l string   log format (json or console)
//
// Duration flags are whole minutes and only applied when given.
// flagNames are the flags parseFlags owns; -c/-config belong to the JSON
// loader.
var flagNames = []string{
	"-a", "-o", "-k", "-d", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-f", "-n", "-l",
}

func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], flagNames)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.OpsAddrHTTP, "o", config.OpsAddrHTTP, "address and port for health and metrics")
	fs.StringVar(&config.DatabaseDialect, "k", config.DatabaseDialect, "database dialect")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory")
	urls := fs.String("n", strings.Join(config.NotificationURLs, ","), "notification URLs, comma separated")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|console)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only flags actually given override durations and lists
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "r":
			config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
		case "n":
			config.NotificationURLs = splitURLs(*urls)
		}
	})
}

func splitURLs(s string) []string {
	var out []string
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}
