package unit

// RescaleShift is the post-accumulation right shift. The reference hardware
// shifts by 10, not the 15 a Q1.15 x Q1.15 renormalization would use.
// Keep it at 10 unless the hardware changes.
const RescaleShift = 10

const mask16 = 0xFFFF

// Load converts both operands to sign-magnitude form and clears the
// accumulator. Each operand with bit 15 set is negated (one's complement
// plus one) and counted in S.
func (s *State) Load(a, b uint16) {
	*s = State{}
	if a&0x8000 != 0 {
		a = uint16((uint32(a)^mask16 + 1) & mask16)
		s.S++
	}
	if b&0x8000 != 0 {
		b = uint16((uint32(b)^mask16 + 1) & mask16)
		s.S++
	}
	s.A = a
	s.B = uint32(b)
}

// Exec runs one clock of the shift-and-add loop: add B into C when the
// multiplier LSB is set, then shift A right and B left. Calling Exec after
// Done is a no-op that returns the final registers.
func (s *State) Exec() Step {
	if s.Done() {
		return Step{Cycle: s.Cycle, A: s.A, B: s.B, Acc: s.C}
	}
	st := Step{Cycle: s.Cycle, Bit: uint8(s.A & 1)}
	if st.Bit == 1 {
		st.Addend = s.B
		s.C += s.B
	}
	s.A >>= 1
	s.B <<= 1
	s.Cycle++

	st.A = s.A
	st.B = s.B
	st.Acc = s.C
	return st
}

// Finish rescales the accumulator, masks it to 16 bits and restores the
// sign. raw is the value before the sign fix. The sign fix is applied only
// when exactly one operand was negative. F is updated.
func (s *State) Finish() (raw, result uint16) {
	shifted := s.C >> RescaleShift
	raw = uint16(shifted & mask16)
	result = raw
	s.F = 0
	if s.S == 1 {
		result = uint16((uint32(raw)^mask16 + 1) & mask16)
		s.F |= FlagX
	}

	if result == 0 {
		s.F |= FlagZ
	}
	if result&0x8000 != 0 {
		s.F |= FlagS
	}
	if shifted > mask16 {
		s.F |= FlagT
	}
	if s.C&(1<<RescaleShift-1) != 0 {
		s.F |= FlagL
	}
	return raw, result
}

// Run loads a and b, clocks the unit until Done and finishes. When trace
// is non-nil every cycle is appended to it.
func (s *State) Run(a, b uint16, trace *[]Step) (raw, result uint16) {
	s.Load(a, b)
	for !s.Done() {
		st := s.Exec()
		if trace != nil {
			*trace = append(*trace, st)
		}
	}
	return s.Finish()
}
