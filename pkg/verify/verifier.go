package verify

import (
	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
)

// Func is a multiplier implementation under test.
type Func func(a, b fixed.Q15) mul.Product

// TestVectors are fixed operands whose cross product makes up QuickCheck:
// zero, one LSB either side, the extremes, powers of two around the
// rescale boundary and alternating bit patterns.
var TestVectors = []fixed.Q15{
	0x0000, 0x0001, 0xFFFF,
	0x7FFF, 0x8000, 0x8001,
	0x4000, 0xC000, 0x2000, 0xE000,
	0x0400, 0xFC00, 0x0200, 0x0800,
	0x5555, 0xAAAA, 0x3333, 0xCCCC,
	0x0F0F, 0xF0F0, 0x1234, 0xEDCC,
}

// compare runs the golden model and f on one pair.
func compare(f Func, a, b fixed.Q15) (result.Mismatch, bool) {
	want := mul.Multiply(a, b)
	got := f(a, b)
	if want.Raw == got.Raw && want.Result == got.Result {
		return result.Mismatch{}, true
	}
	return result.Mismatch{
		A: a, B: b,
		WantRaw: want.Raw, WantResult: want.Result,
		GotRaw: got.Raw, GotResult: got.Result,
	}, false
}

// QuickCheck tests f against the golden model on the TestVectors cross
// product. Returns true if raw and result agree on every pair.
func QuickCheck(f Func) bool {
	return len(QuickMismatches(f)) == 0
}

// QuickMismatches is QuickCheck returning every disagreeing pair.
func QuickMismatches(f Func) []result.Mismatch {
	var out []result.Mismatch
	for _, a := range TestVectors {
		for _, b := range TestVectors {
			if m, ok := compare(f, a, b); !ok {
				out = append(out, m)
			}
		}
	}
	return out
}

// QuickPairs returns the TestVectors cross product in row order.
func QuickPairs() [][2]fixed.Q15 {
	pairs := make([][2]fixed.Q15, 0, len(TestVectors)*len(TestVectors))
	for _, a := range TestVectors {
		for _, b := range TestVectors {
			pairs = append(pairs, [2]fixed.Q15{a, b})
		}
	}
	return pairs
}

// Golden returns golden vectors for pairs.
func Golden(pairs [][2]fixed.Q15) []result.Vector {
	out := make([]result.Vector, len(pairs))
	for i, p := range pairs {
		prod := mul.Multiply(p[0], p[1])
		out[i] = result.Vector{A: p[0], B: p[1], Raw: prod.Raw, Result: prod.Result}
	}
	return out
}

// CheckVectors compares recorded vectors (e.g. a hardware dump) with the
// golden model.
func CheckVectors(vectors []result.Vector) []result.Mismatch {
	var out []result.Mismatch
	for _, v := range vectors {
		want := mul.Multiply(v.A, v.B)
		if want.Raw != v.Raw || want.Result != v.Result {
			out = append(out, result.Mismatch{
				A: v.A, B: v.B,
				WantRaw: want.Raw, WantResult: want.Result,
				GotRaw: v.Raw, GotResult: v.Result,
			})
		}
	}
	return out
}
