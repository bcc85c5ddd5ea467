package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-w", "127.0.0.1:8080", "-k", "s3", "-f", "/var/lib/paramita",
			"-d", "db", "-s", "secret", "-t", "60", "-x", "12", "-n", "4", "-l", "zap", "-v", "debug",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				EndpointAddrHTTP:            "127.0.0.1:8080",
				StorageBackend:              "s3",
				DataDir:                     "/var/lib/paramita",
				DatabaseDSN:                 "db",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 1 * time.Hour,
				BcryptCost:                  12,
				HashConcurrency:             4,
				LogBackend:                  "zap",
				LogLevel:                    "debug",
				S3RootUser:                  "user",
				S3RootPassword:              "password",
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
			}},
		{name: "foreign flags ignored", args: []string{"cmd", "-config", "x.json", "-envfile", ".env", "-s", "k"},
			expectPanic: false,
			expected:    &Config{SecretKey: "k"},
		},
		{name: "bad int panics", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsTokenValidityWithoutFlag(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, d := range []time.Duration{30 * time.Second, 90 * time.Second, 7 * 24 * time.Hour} {
		os.Args = []string{"server", "-a", ":7000"}

		config := &Config{AccessTokenValidityDuration: d}
		require.NotPanics(t, func() { parseFlags(config) })

		assert.Equal(t, d, config.AccessTokenValidityDuration)
		assert.Equal(t, ":7000", config.EndpointAddrGRPC)
	}
}

func TestLoadConfig_EnvTokenValiditySurvivesFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}
	t.Chdir(t.TempDir())
	t.Setenv("TOKEN_VALIDITY", "30s")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.AccessTokenValidityDuration)
}
