package fixed

import "fmt"

// Q15 is a 16-bit two's-complement Q1.15 value: bit 15 is the sign,
// bits 14..0 the fraction scaled by 2^15. Range [-1.0, 1.0-2^-15].
type Q15 uint16

const (
	SignBit Q15 = 0x8000
	Mask        = 0xFFFF

	// MinValue is -1.0, the only value whose negation is itself.
	MinValue Q15 = 0x8000
	// MaxValue is 1.0 - 2^-15.
	MaxValue Q15 = 0x7FFF
)

// Negative reports whether the sign bit is set.
func (q Q15) Negative() bool {
	return q&SignBit != 0
}

// Negate returns the two's-complement negation: one's complement plus one,
// masked to 16 bits. Negate(MinValue) == MinValue.
func (q Q15) Negate() Q15 {
	return Q15((uint32(q)^Mask + 1) & Mask)
}

// Magnitude returns the unsigned magnitude of q in sign-magnitude form.
// The magnitude of MinValue is 0x8000.
func (q Q15) Magnitude() uint16 {
	if q.Negative() {
		return uint16(q.Negate())
	}
	return uint16(q)
}

// Float converts q to a float64. Diagnostic output only.
func (q Q15) Float() float64 {
	return float64(int16(q)) / 32768.0
}

// String formats q as a 4-digit lowercase hex literal.
func (q Q15) String() string {
	return fmt.Sprintf("0x%04x", uint16(q))
}

// MarshalText implements encoding.TextMarshaler.
func (q Q15) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseHex.
func (q *Q15) UnmarshalText(text []byte) error {
	v, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*q = v
	return nil
}
