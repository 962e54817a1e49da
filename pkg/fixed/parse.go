package fixed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmpty  = errors.New("empty value")
	ErrSyntax = errors.New("invalid hexadecimal numeral")
)

// ParseError records a failed conversion of an operand.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseHex converts base-16 text into a Q15. Accepted forms:
//
//	7fff  0x7fff  0X7FFF  7fffh  +8000  -1  ffff_ffff
//
// The value is masked to 16 bits; a leading '-' yields the 16-bit
// two's complement of the magnitude.
func ParseHex(text string) (Q15, error) {
	s := strings.TrimSpace(text)

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		s = s[2:]
	case strings.HasSuffix(s, "h") || strings.HasSuffix(s, "H"):
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, &ParseError{Text: text, Err: ErrEmpty}
	}
	if s[0] == '_' || s[len(s)-1] == '_' || strings.Contains(s, "__") {
		return 0, &ParseError{Text: text, Err: ErrSyntax}
	}
	s = strings.ReplaceAll(s, "_", "")

	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return 0, &ParseError{Text: text, Err: ErrSyntax}
		}
	}
	// Only the low four digits survive the 16-bit mask.
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, &ParseError{Text: text, Err: ErrSyntax}
	}

	q := Q15(v & Mask)
	if neg {
		q = q.Negate()
	}
	return q, nil
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// MustParseHex is like ParseHex but panics on error. For tables and tests.
func MustParseHex(text string) Q15 {
	q, err := ParseHex(text)
	if err != nil {
		panic(err)
	}
	return q
}
