package mul

import (
	"testing"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/unit"
)

func TestMultiplyEdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		a, b       fixed.Q15
		wantRaw    fixed.Q15
		wantResult fixed.Q15
		wantSigns  uint8
	}{
		// Zero times anything is zero.
		{"zero", 0x0000, 0x1234, 0x0000, 0x0000, 0},
		// 0x3fff0001 >> 10 = 0xfffc0, masked to 0xffc0; no sign fix.
		{"max*max", 0x7FFF, 0x7FFF, 0xFFC0, 0xFFC0, 0},
		// 0x3fff8000 >> 10 = 0xfffe0 -> raw 0xffe0, negated to 0x0020.
		{"min*max", 0x8000, 0x7FFF, 0xFFE0, 0x0020, 1},
		{"max*min", 0x7FFF, 0x8000, 0xFFE0, 0x0020, 1},
		// Both negative: signs cancel; 0x40000000 >> 10 masks to 0.
		{"min*min", 0x8000, 0x8000, 0x0000, 0x0000, 2},
		{"0.5*0.5", 0x4000, 0x4000, 0x0000, 0x0000, 0},
		{"1/32*1/32", 0x0400, 0x0400, 0x0400, 0x0400, 0},
		{"-1/32*1/32", 0xFC00, 0x0400, 0x0400, 0xFC00, 1},
		{"-1/32*-1/32", 0xFC00, 0xFC00, 0x0400, 0x0400, 2},
		{"lsb*lsb", 0x0001, 0x0001, 0x0000, 0x0000, 0},
		{"-lsb*lsb", 0xFFFF, 0x0001, 0x0000, 0x0000, 1},
		{"0x1234*0x0400", 0x1234, 0x0400, 0x1234, 0x1234, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := Multiply(tc.a, tc.b)
			if p.Raw != tc.wantRaw {
				t.Errorf("Raw = %s, want %s", p.Raw, tc.wantRaw)
			}
			if p.Result != tc.wantResult {
				t.Errorf("Result = %s, want %s", p.Result, tc.wantResult)
			}
			if p.Signs != tc.wantSigns {
				t.Errorf("Signs = %d, want %d", p.Signs, tc.wantSigns)
			}
		})
	}
}

// TestSignFixAppliedToRaw checks that the single-negative result is the
// negation of the reported raw value, not a recomputation.
func TestSignFixAppliedToRaw(t *testing.T) {
	for _, pair := range [][2]fixed.Q15{
		{0x8000, 0x7FFF}, {0xFFFF, 0x7FFF}, {0x1234, 0xEDCC}, {0xC000, 0x0001},
	} {
		p := Multiply(pair[0], pair[1])
		if p.Signs != 1 {
			t.Fatalf("%s*%s: Signs = %d, want 1", pair[0], pair[1], p.Signs)
		}
		if p.Result != p.Raw.Negate() {
			t.Errorf("%s*%s: Result %s != Negate(Raw %s)", pair[0], pair[1], p.Result, p.Raw)
		}
	}
}

func TestSignRule(t *testing.T) {
	values := []fixed.Q15{0x0001, 0x0400, 0x1234, 0x4000, 0x5555, 0x7FFF, 0x0FFF}
	for _, a := range values {
		for _, b := range values {
			p := Multiply(a, b)
			pn := Multiply(a.Negate(), b)
			if pn.Raw != p.Raw {
				t.Errorf("%s*%s: raw %s, negated a raw %s", a, b, p.Raw, pn.Raw)
			}
			if pn.Result != p.Result.Negate() {
				t.Errorf("%s*%s: -a*b = %s, want %s", a, b, pn.Result, p.Result.Negate())
			}
			pnn := Multiply(a.Negate(), b.Negate())
			if pnn.Raw != p.Raw || pnn.Result != p.Result {
				t.Errorf("%s*%s: -a*-b = %s, want %s", a, b, pnn.Result, p.Result)
			}
		}
	}
}

func TestCommutative(t *testing.T) {
	values := []fixed.Q15{0x0000, 0x0001, 0x8000, 0x7FFF, 0xAAAA, 0x5555, 0xFFFF, 0x0F0F}
	for _, a := range values {
		for _, b := range values {
			if x, y := Multiply(a, b), Multiply(b, a); x.Raw != y.Raw || x.Result != y.Result {
				t.Errorf("%s*%s = %s, %s*%s = %s", a, b, x.Result, b, a, y.Result)
			}
		}
	}
}

// TestMatchesReference walks a stride through the operand space and
// compares the shift-and-add path with the direct multiply.
func TestMatchesReference(t *testing.T) {
	for a := 0; a <= 0xFFFF; a += 97 {
		for b := 0; b <= 0xFFFF; b += 89 {
			got := Multiply(fixed.Q15(a), fixed.Q15(b))
			want := Reference(fixed.Q15(a), fixed.Q15(b))
			if got.Raw != want.Raw || got.Result != want.Result || got.Signs != want.Signs || got.Acc != want.Acc {
				t.Fatalf("%04X*%04X: bit-serial %+v, reference %+v", a, b, got, want)
			}
		}
	}
}

// TestMatchesSignedArithmetic ties the model to ordinary signed integer
// math: truncation toward zero of |a*b| >> 10, masked.
func TestMatchesSignedArithmetic(t *testing.T) {
	for a := 0; a <= 0xFFFF; a += 251 {
		for b := 0; b <= 0xFFFF; b += 241 {
			prod := int64(int16(a)) * int64(int16(b))
			mag := prod
			if mag < 0 {
				mag = -mag
			}
			v := (mag >> RescaleShift) & 0xFFFF
			if prod < 0 {
				v = -v
			}
			want := fixed.Q15(uint16(v))
			if got := Multiply(fixed.Q15(a), fixed.Q15(b)).Result; got != want {
				t.Fatalf("%04X*%04X = %s, want %s", a, b, got, want)
			}
		}
	}
}

func TestTrace(t *testing.T) {
	p, steps := Trace(0x8000, 0x7FFF)
	if len(steps) != unit.Width {
		t.Fatalf("len(steps) = %d, want %d", len(steps), unit.Width)
	}
	if p != Multiply(0x8000, 0x7FFF) {
		t.Fatalf("Trace product %+v differs from Multiply", p)
	}
	// Multiplier magnitude 0x8000 has a single set bit, sampled last.
	for i, st := range steps[:unit.Width-1] {
		if st.Bit != 0 {
			t.Fatalf("step %d: Bit = 1, want 0", i)
		}
	}
	last := steps[unit.Width-1]
	if last.Bit != 1 || last.Addend != 0x7FFF<<15 || last.Acc != p.Acc {
		t.Fatalf("last step %+v, want addend %X acc %X", last, 0x7FFF<<15, p.Acc)
	}
}
