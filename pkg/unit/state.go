package unit

// Width is the operand width in bits; the unit runs one cycle per bit.
const Width = 16

// State is the register file of the multiplier unit.
//
//	A: multiplier magnitude, shifts right one bit per cycle
//	B: multiplicand magnitude, shifts left one bit per cycle
//	C: accumulator; needs 32 bits since B reaches bit 31
//	S: number of negative operands seen by Load (0, 1 or 2)
//	F: status flags, valid after Finish
type State struct {
	A     uint16
	B, C  uint32
	S     uint8
	F     uint8
	Cycle int
}

// Step is one trace record: the registers after a single clock.
type Step struct {
	Cycle  int    `json:"cycle"`
	Bit    uint8  `json:"bit"`    // multiplier LSB sampled this cycle
	A      uint16 `json:"a"`      // multiplier after the shift
	B      uint32 `json:"b"`      // multiplicand after the shift
	Addend uint32 `json:"addend"` // value added to C (0 when Bit is 0)
	Acc    uint32 `json:"acc"`
}

// Done reports whether all Width cycles have run.
func (s *State) Done() bool {
	return s.Cycle >= Width
}
