package annotation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"thinline/internal/domain"
)

var (
	integerPattern = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern   = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// ParseLiteral reads one literal token. Strings are single-quoted; inside
// them \' and \\ are escapes and any other backslash is kept as is
func ParseLiteral(token string) (domain.Literal, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return domain.Literal{}, fmt.Errorf("%w: empty value", ErrUnsupportedLiteral)
	case integerPattern.MatchString(token):
		v, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			return domain.Literal{}, fmt.Errorf("%w: integer %s out of range", ErrUnsupportedLiteral, token)
		}
		return domain.Int(v), nil
	case floatPattern.MatchString(token):
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return domain.Literal{}, fmt.Errorf("%w: float %s out of range", ErrUnsupportedLiteral, token)
		}
		return domain.Float(v), nil
	case token[0] == '\'':
		s, rest, err := unquote(token)
		if err != nil {
			return domain.Literal{}, err
		}
		if rest != "" {
			return domain.Literal{}, fmt.Errorf("%w: trailing %q after string", ErrUnsupportedLiteral, rest)
		}
		return domain.Text(s), nil
	}
	return domain.Literal{}, fmt.Errorf("%w: %s", ErrUnsupportedLiteral, token)
}

// unquote reads a quoted string at the start of s and returns its value and
// whatever follows the closing quote
func unquote(s string) (string, string, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\'):
			b.WriteByte(s[i+1])
			i++
		case c == '\'':
			return b.String(), strings.TrimSpace(s[i+1:]), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("%w: unterminated string %s", ErrUnsupportedLiteral, s)
}

// splitOutsideQuotes splits s on sep, ignoring separators inside quoted
// strings and inside brackets
func splitOutsideQuotes(s, sep string) []string {
	var parts []string
	start := 0
	depth := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			if c == '\\' && i+1 < len(s) {
				i++
				continue
			}
			if c == '\'' {
				inQuote = false
			}
			continue
		}
		switch c {
		case '\'':
			inQuote = true
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
