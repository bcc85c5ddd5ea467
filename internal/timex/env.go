package timex

import (
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvOptions makes caarlos0/env parse time.Duration fields with
// ParseDuration, so environment variables accept the "Nd" form too.
func EnvOptions() env.Options {
	return env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (interface{}, error) {
				return ParseDuration(v)
			},
		},
	}
}
