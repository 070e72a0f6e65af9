package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{name: "seconds", input: "45s", want: 45 * time.Second},
		{name: "minutes", input: "30m", want: 30 * time.Minute},
		{name: "hours and minutes", input: "2h30m", want: 2*time.Hour + 30*time.Minute},
		{name: "days", input: "1d", want: 24 * time.Hour},
		{name: "french day alias", input: "1j", want: 24 * time.Hour},
		{name: "all units", input: "1d2h3m4s", want: 24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second},
		{name: "uppercase", input: "2H30M", want: 2*time.Hour + 30*time.Minute},
		{name: "junk between tokens", input: "2h and 30m", want: 2*time.Hour + 30*time.Minute},
		{name: "repeated unit", input: "10m10m", want: 20 * time.Minute},
		{name: "garbage", input: "garbage", want: 0},
		{name: "empty", input: "", want: 0},
		{name: "number without unit", input: "42", want: 0},
		{name: "unit without number", input: "h", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.input))
		})
	}
}
