package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/paramita-auth/internal/flagx"
	"github.com/dmitrijs2005/paramita-auth/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration, so "168h", "7d" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	StorageBackend              string         `json:"storage_backend"`
	DataDir                     string         `json:"data_dir"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	HashConcurrency             int            `json:"hash_concurrency"`
	LogBackend                  string         `json:"log_backend"`
	LogLevel                    string         `json:"log_level"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson overlays the file named by -c / -config onto config. Keys
// missing from the file keep their current values. An unreadable or
// invalid file panics: the server must not start half-configured.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := fromConfig(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.StorageBackend = c.StorageBackend
	config.DataDir = c.DataDir
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.BcryptCost = c.BcryptCost
	config.HashConcurrency = c.HashConcurrency
	config.LogBackend = c.LogBackend
	config.LogLevel = c.LogLevel
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}

func fromConfig(config *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		EndpointAddrHTTP:            config.EndpointAddrHTTP,
		StorageBackend:              config.StorageBackend,
		DataDir:                     config.DataDir,
		DatabaseDSN:                 config.DatabaseDSN,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		BcryptCost:                  config.BcryptCost,
		HashConcurrency:             config.HashConcurrency,
		LogBackend:                  config.LogBackend,
		LogLevel:                    config.LogLevel,
		S3RootUser:                  config.S3RootUser,
		S3RootPassword:              config.S3RootPassword,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
	}
}
