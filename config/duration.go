package config

import (
	"strconv"
	"time"
)

// Duration holds timeouts such as submit_timeout. It is written as a Go
// duration ("90s", "2m") or a bare number of seconds, and doubles as a
// command-line flag value.
type Duration time.Duration

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

// UnmarshalText accepts "", a Go duration or whole seconds. An empty value
// leaves d unchanged.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Set parses a --submit-timeout style flag.
func (d *Duration) Set(raw string) error {
	return d.UnmarshalText([]byte(raw))
}

// Type names the flag value in help output.
func (d *Duration) Type() string {
	return "duration"
}
