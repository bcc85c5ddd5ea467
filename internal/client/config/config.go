package config

import "time"

// Config holds runtime settings for the authctl CLI.
type Config struct {
	// ServerEndpointAddr is host:port of the auth server gRPC endpoint.
	ServerEndpointAddr string `env:"AUTHCTL_SERVER"`
	// RequestTimeout bounds every call to the server; zero disables it.
	RequestTimeout time.Duration `env:"AUTHCTL_TIMEOUT"`
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig layers defaults, the JSON file, AUTHCTL_* environment
// variables and flags, each overriding the previous one.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
