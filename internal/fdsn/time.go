package fdsn

import (
	"fmt"
	"strings"
	"time"
)

// WsMarshalTimeFormat is the FDSN query time format.
const WsMarshalTimeFormat = "2006-01-02T15:04:05"

// Time is an FDSN web service time (always UTC).
type Time struct {
	time.Time
}

// UnmarshalText implements the encoding.TextUnmarshaler interface using ParseTime.
func (t *Time) UnmarshalText(text []byte) (err error) {
	t.Time, err = ParseTime(string(text))
	return err
}

// MarshalText implements the encoding.TextMarshaler interface.  Sub-seconds are dropped.
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.Time.UTC().Format(WsMarshalTimeFormat)), nil
}

/*
ParseTime parses an FDSN time.  Times are UTC, optionally with a trailing 'Z':

	2006-01-02T15:04:05.999999
	2006-01-02T15:04:05
	2006-01-02

Explicit offsets are an error.
*/
func ParseTime(s string) (time.Time, error) {
	v := strings.TrimSuffix(strings.TrimSpace(s), "Z")

	// fractional seconds parse with either layout.
	for _, layout := range []string{WsMarshalTimeFormat, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time string: '%s'", s)
}
