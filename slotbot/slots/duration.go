package slots

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationToken = regexp.MustCompile(`(\d+)([smhdj])`)

// ParseDuration sums every <number><unit> token in s, with units s, m, h and
// d (j accepted as an alias for days). Characters between tokens are ignored.
// A string containing no tokens parses to zero; callers must treat a
// non-positive result as invalid input.
func ParseDuration(s string) time.Duration {
	var total time.Duration
	for _, match := range durationToken.FindAllStringSubmatch(strings.ToLower(s), -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch match[2] {
		case "s":
			total += time.Duration(value) * time.Second
		case "m":
			total += time.Duration(value) * time.Minute
		case "h":
			total += time.Duration(value) * time.Hour
		case "d", "j":
			total += time.Duration(value) * 24 * time.Hour
		}
	}
	return total
}
