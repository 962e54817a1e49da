package unit

// Status flag bit positions in the F register.
const (
	FlagZ uint8 = 0x01 // Result is zero
	FlagS uint8 = 0x02 // Result bit 15
	FlagX uint8 = 0x04 // Sign fix applied (operand signs differed)
	FlagT uint8 = 0x08 // Accumulator bits above the 16-bit window truncated
	FlagL uint8 = 0x10 // Nonzero bits lost to the rescale shift
)

var flagNames = []struct {
	bit  uint8
	name string
}{
	{FlagZ, "Z"},
	{FlagS, "S"},
	{FlagX, "X"},
	{FlagT, "T"},
	{FlagL, "L"},
}

// FlagString renders F as a fixed-width string, e.g. "-S-T-".
func FlagString(f uint8) string {
	b := make([]byte, len(flagNames))
	for i, fn := range flagNames {
		if f&fn.bit != 0 {
			b[i] = fn.name[0]
		} else {
			b[i] = '-'
		}
	}
	return string(b)
}
