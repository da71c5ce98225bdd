package task

import (
	"fmt"
	"os"
	"strings"
)

// FormatError describes a format string or option value which could not be
// interpreted.
type FormatError struct {
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot format %q: %s", e.Value, e.Reason)
}

// Interpolate substitutes %(key)s and %(key)d references in format with the
// given values. "%%" yields a literal "%"; any other "%" is copied as is, so
// scheduler patterns such as Slurm's %j pass through untouched.
func Interpolate(format string, values map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}
		switch format[i+1] {
		case '%':
			b.WriteByte('%')
			i++
		case '(':
			end := strings.IndexByte(format[i+2:], ')')
			if end < 0 {
				return "", &FormatError{format, "unterminated %( reference"}
			}
			key := format[i+2 : i+2+end]
			conv := i + 2 + end + 1
			if conv >= len(format) || (format[conv] != 's' && format[conv] != 'd') {
				return "", &FormatError{format, fmt.Sprintf("reference %q needs an s or d conversion", key)}
			}
			v, ok := values[key]
			if !ok {
				return "", &FormatError{format, fmt.Sprintf("missing value for %q", key)}
			}
			b.WriteString(v)
			i = conv
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

// expandEnv replaces $NAME and ${NAME} with the value of the environment
// variable. References to unset variables are left unchanged.
func expandEnv(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		var name, ref string
		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteByte(s[i])
				continue
			}
			name = s[i+2 : i+2+end]
			ref = s[i : i+2+end+1]
		} else {
			j := i + 1
			for j < len(s) && isNameByte(s[j]) {
				j++
			}
			name = s[i+1 : j]
			ref = s[i:j]
		}
		if name == "" {
			b.WriteByte(s[i])
			continue
		}
		if v, ok := os.LookupEnv(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(ref)
		}
		i += len(ref) - 1
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
