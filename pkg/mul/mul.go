// Package mul is the golden model of the Q1.15 shift-and-add multiplier.
//
// Multiply reproduces the hardware bit for bit: sign-magnitude conversion,
// sixteen shift-and-add cycles, a 10-bit rescale, a 16-bit mask and a sign
// fix applied only when the operand signs differ. The accumulation order
// does not change the numeric magnitude, so Multiply and Reference agree on
// every input; Reference exists to prove that (see verify.ExhaustiveCheck).
package mul

import (
	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/unit"
)

// RescaleShift is the literal shift applied to the raw accumulator.
const RescaleShift = unit.RescaleShift

// Product is the outcome of one multiplication.
type Product struct {
	Raw    fixed.Q15 // rescaled, masked magnitude before the sign fix
	Result fixed.Q15 // final signed product
	Signs  uint8     // number of negative operands (0, 1 or 2)
	Acc    uint32    // accumulator before the rescale
	Flags  uint8     // unit status flags
}

// Multiply computes a*b the way the multiplier unit does.
func Multiply(a, b fixed.Q15) Product {
	var s unit.State
	raw, res := s.Run(uint16(a), uint16(b), nil)
	return product(&s, raw, res)
}

// Trace is Multiply plus the per-cycle register trace.
func Trace(a, b fixed.Q15) (Product, []unit.Step) {
	var s unit.State
	steps := make([]unit.Step, 0, unit.Width)
	raw, res := s.Run(uint16(a), uint16(b), &steps)
	return product(&s, raw, res), steps
}

func product(s *unit.State, raw, res uint16) Product {
	return Product{
		Raw:    fixed.Q15(raw),
		Result: fixed.Q15(res),
		Signs:  s.S,
		Acc:    s.C,
		Flags:  s.F,
	}
}

// Reference computes the same product with a single wide multiply. It
// does not model the datapath, so Flags is left zero.
func Reference(a, b fixed.Q15) Product {
	var signs uint8
	if a.Negative() {
		signs++
	}
	if b.Negative() {
		signs++
	}
	acc := uint32(a.Magnitude()) * uint32(b.Magnitude())
	raw := fixed.Q15((acc >> RescaleShift) & fixed.Mask)
	res := raw
	if signs == 1 {
		res = raw.Negate()
	}
	return Product{Raw: raw, Result: res, Signs: signs, Acc: acc}
}
