package task

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/alecthomas/units"
	"github.com/hashicorp/go-multierror"
	"github.com/kballard/go-shellquote"
	"github.com/ohsu-comp-bio/yatamana/walltime"
)

// DecodeOptions converts a decoded configuration mapping into Options.
// Recognized keys come first in vocabulary order, followed by unknown keys
// in lexical order. Each unknown key is passed to warn, which may be nil.
func DecodeOptions(raw map[string]interface{}, warn func(key string)) (*Options, error) {
	opts := NewOptions()
	var errs *multierror.Error

	for _, key := range vocabulary {
		v, ok := raw[key]
		if !ok {
			continue
		}
		val, err := decodeValue(key, v)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		opts.Set(val)
	}

	var unknown []string
	for key := range raw {
		if !IsRecognized(key) {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		if warn != nil {
			warn(key)
		}
		opts.Set(Unknown{Name: key, Value: raw[key]})
	}

	return opts, errs.ErrorOrNil()
}

func decodeValue(key string, v interface{}) (Value, error) {
	bad := func(reason string) error {
		return &FormatError{Value: fmt.Sprintf("%s: %v", key, v), Reason: reason}
	}

	switch key {
	case KeyRaw:
		switch x := v.(type) {
		case string:
			words, err := shellquote.Split(x)
			if err != nil {
				return nil, bad(err.Error())
			}
			return Raw(words), nil
		case []interface{}:
			words, err := stringList(x)
			if err != nil {
				return nil, bad(err.Error())
			}
			return Raw(words), nil
		case []string:
			return Raw(x).clone(), nil
		}
		return nil, bad("expected a string or a list")

	case KeyCurrentWorkingDirectory:
		b, ok := v.(bool)
		if !ok {
			return nil, bad("expected a boolean")
		}
		return CurrentWorkingDirectory(b), nil

	case KeyLogFilename, KeyLogDirectory, KeyName, KeyQOS:
		s, ok := v.(string)
		if !ok {
			return nil, bad("expected a string")
		}
		switch key {
		case KeyLogFilename:
			return LogFilename(s), nil
		case KeyLogDirectory:
			return LogDirectory(s), nil
		case KeyName:
			return Name(s), nil
		}
		return QOS(s), nil

	case KeyWalltime:
		if _, err := walltime.ParseValue(v); err != nil {
			return nil, err
		}
		if s, ok := v.(string); ok {
			return WalltimeSpec(s), nil
		}
		n, _ := integer(v)
		return WalltimeSpec(fmt.Sprint(n)), nil

	case KeyCores:
		n, ok := integer(v)
		if !ok || n < 0 {
			return nil, bad("expected a non-negative integer")
		}
		return Cores(n), nil

	case KeyMemory:
		if n, ok := integer(v); ok {
			if n < 0 {
				return nil, bad("expected a non-negative size")
			}
			return Memory(n), nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, bad("expected an integer (GB) or a size such as 4G")
		}
		gb, err := parseGigabytes(s)
		if err != nil {
			return nil, bad(err.Error())
		}
		return Memory(gb), nil

	case KeyDependencies:
		return nil, bad("dependencies can only be set on tasks at runtime")

	case KeyModules:
		switch x := v.(type) {
		case string:
			return Modules(strings.Fields(x)), nil
		case []interface{}:
			mods, err := stringList(x)
			if err != nil {
				return nil, bad(err.Error())
			}
			return Modules(mods), nil
		case []string:
			return Modules(x).clone(), nil
		}
		return nil, bad("expected a string or a list")
	}
	return Unknown{Name: key, Value: v}, nil
}

// parseGigabytes parses sizes such as "4G", "512MiB" or "2GB" and rounds
// up to whole gigabytes. A bare number is taken as gigabytes.
func parseGigabytes(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}
	if unicode.IsDigit(rune(s[len(s)-1])) {
		s += "GB"
	} else if !strings.HasSuffix(s, "B") {
		s += "B"
	}
	s = strings.Replace(s, "IB", "iB", 1)
	b, err := units.ParseBase2Bytes(s)
	if err != nil {
		return 0, err
	}
	if b < 0 {
		return 0, fmt.Errorf("negative size")
	}
	return int(math.Ceil(float64(b) / float64(units.GiB))), nil
}

func integer(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func stringList(items []interface{}) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("list item %v is not a string", it)
		}
		out = append(out, s)
	}
	return out, nil
}
