package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/paramita-auth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8001"; empty disables HTTP)
//	-k string   storage backend: file, postgres or s3
//	-f string   data directory of the file backend
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-x int      bcrypt cost
//	-n int      max concurrent password hash operations
//	-l string   log backend: slog or zap
//	-v string   log level
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs), so
// -c/-config and -envfile do not collide. Token validity is given in
// whole minutes and only replaces the current value when -t is passed.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-w", "-k", "-f", "-d", "-s", "-t", "-x", "-n", "-l", "-v", "-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.StorageBackend, "k", config.StorageBackend, "storage backend (file, postgres, s3)")
	fs.StringVar(&config.DataDir, "f", config.DataDir, "data directory for the file backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.Func("t", "token validity (in minutes)", func(v string) error {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
		return nil
	})
	fs.IntVar(&config.BcryptCost, "x", config.BcryptCost, "bcrypt cost")
	fs.IntVar(&config.HashConcurrency, "n", config.HashConcurrency, "max concurrent password hash operations")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog, zap)")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
