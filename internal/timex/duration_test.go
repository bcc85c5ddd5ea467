package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "go duration string", in: `"90m"`, want: 90 * time.Minute},
		{name: "days", in: `"7d"`, want: 7 * 24 * time.Hour},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bad days", in: `"xd"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 2 * time.Hour})
	require.NoError(t, err)
	assert.JSONEq(t, `"2h0m0s"`, string(b))
}

func TestEnvOptions_ParsesDays(t *testing.T) {
	type cfg struct {
		Validity time.Duration `env:"TIMEX_TEST_VALIDITY"`
	}
	t.Setenv("TIMEX_TEST_VALIDITY", "2d")

	var c cfg
	require.NoError(t, env.ParseWithOptions(&c, EnvOptions()))
	assert.Equal(t, 48*time.Hour, c.Validity)
}
