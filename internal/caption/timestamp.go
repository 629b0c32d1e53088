package caption

import (
	"fmt"
	"math"
)

// FormatTimestamp renders seconds as HH:MM:SS,mmm, the SRT cue time.
//
// Seconds are rounded half away from zero to the nearest millisecond before
// being split into fields, so 59.9996 becomes 00:01:00,000. Hours are at
// least two digits and are not capped at 24.
func FormatTimestamp(seconds float64) (string, error) {
	return FormatTimestampSep(seconds, ',')
}

// FormatTimestampSep is FormatTimestamp with a custom separator between
// seconds and milliseconds ('.' for WebVTT).
func FormatTimestampSep(seconds float64, sep byte) (string, error) {
	ms, err := Milliseconds(seconds)
	if err != nil {
		return "", err
	}

	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	millis := ms % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis), nil
}

// Milliseconds converts seconds to whole milliseconds with the formatter's
// rounding policy.
func Milliseconds(seconds float64) (int64, error) {
	if !(seconds >= 0) {
		return 0, fmt.Errorf("%w: %v", ErrNegativeTime, seconds)
	}
	return int64(math.Round(seconds * 1000)), nil
}
