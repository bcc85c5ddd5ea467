package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/paramita-auth/internal/flagx"
	"github.com/dmitrijs2005/paramita-auth/internal/timex"
)

// parseFlags overlays -a (server address) and -t (request timeout). -t takes
// a duration such as "2s" or "1m", or a bare number of seconds.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the auth server")
	fs.Func("t", "request timeout (duration or seconds)", func(v string) error {
		d, err := parseTimeout(v)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d
		return nil
	})

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

func parseTimeout(v string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return timex.ParseDuration(v)
}
