// Package walltime converts between human walltime specifications and
// seconds, and formats seconds the way batch schedulers expect them.
//
// Accepted specifications:
//
//	minutes (integer)
//	"minutes"
//	"minutes:seconds"
//	"hours:minutes:seconds"
//	"days-hours"
//	"days-hours:minutes"
//	"days-hours:minutes:seconds"
package walltime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatError describes a malformed walltime specification.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed walltime %q: %s", e.Value, e.Reason)
}

// MaxSeconds is the longest walltime accepted, about 68 years.
const MaxSeconds = math.MaxInt32

// FromMinutes converts whole minutes into seconds.
func FromMinutes(minutes int) int {
	return minutes * 60
}

// ParseValue parses a walltime given either as an integer number of minutes
// or as a string specification. Values decoded from JSON arrive as float64
// and must be integral.
func ParseValue(v interface{}) (int, error) {
	switch x := v.(type) {
	case int:
		return checkedMinutes(int64(x))
	case int32:
		return checkedMinutes(int64(x))
	case int64:
		return checkedMinutes(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, &FormatError{fmt.Sprint(x), "minutes must be a whole number"}
		}
		if math.Abs(x) > MaxSeconds {
			return 0, &FormatError{fmt.Sprint(x), "out of range"}
		}
		return checkedMinutes(int64(x))
	case string:
		return Parse(x)
	}
	return 0, &FormatError{fmt.Sprint(v), fmt.Sprintf("unsupported type %T", v)}
}

func checkedMinutes(n int64) (int, error) {
	if n < 0 {
		return 0, &FormatError{fmt.Sprint(n), "negative minutes"}
	}
	if n > MaxSeconds/60 {
		return 0, &FormatError{fmt.Sprint(n), "out of range"}
	}
	return FromMinutes(int(n)), nil
}

// Parse parses a walltime specification string into seconds.
func Parse(value string) (int, error) {
	var days, hours, minutes, seconds int64
	var err error

	s := strings.TrimSpace(value)
	if i := strings.Index(s, "-"); i >= 0 {
		if days, err = field(value, s[:i]); err != nil {
			return 0, err
		}
		parts := strings.Split(s[i+1:], ":")
		if len(parts) > 3 {
			return 0, &FormatError{value, "too many fields"}
		}
		if hours, err = field(value, parts[0]); err != nil {
			return 0, err
		}
		if len(parts) > 1 {
			if minutes, err = field(value, parts[1]); err != nil {
				return 0, err
			}
		}
		if len(parts) > 2 {
			if seconds, err = field(value, parts[2]); err != nil {
				return 0, err
			}
		}
	} else if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		switch len(parts) {
		case 2:
			if minutes, err = field(value, parts[0]); err != nil {
				return 0, err
			}
		case 3:
			if hours, err = field(value, parts[0]); err != nil {
				return 0, err
			}
			if minutes, err = field(value, parts[1]); err != nil {
				return 0, err
			}
		default:
			return 0, &FormatError{value, "too many fields"}
		}
		if seconds, err = field(value, parts[len(parts)-1]); err != nil {
			return 0, err
		}
	} else {
		if minutes, err = field(value, s); err != nil {
			return 0, err
		}
	}
	total := ((days*24+hours)*60+minutes)*60 + seconds
	if total > MaxSeconds {
		return 0, &FormatError{value, "out of range"}
	}
	return int(total), nil
}

// field parses one non-negative component. Components are capped at
// MaxSeconds so the total cannot overflow.
func field(value, s string) (int64, error) {
	if s == "" {
		return 0, &FormatError{value, "empty field"}
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, &FormatError{value, fmt.Sprintf("invalid field %q", s)}
		}
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, &FormatError{value, "out of range"}
	}
	return n, nil
}

// Format renders seconds as DD-HH:MM:SS, the duration syntax understood by
// Slurm and Grid Engine.
func Format(seconds int) string {
	minutes := seconds / 60
	seconds -= minutes * 60
	hours := minutes / 60
	minutes -= hours * 60
	days := hours / 24
	hours -= days * 24
	return fmt.Sprintf("%02d-%02d:%02d:%02d", days, hours, minutes, seconds)
}

// FormatDuration renders a duration as DD-HH:MM:SS, rounding fractional
// seconds up.
func FormatDuration(d time.Duration) string {
	return Format(int(math.Ceil(d.Seconds())))
}
