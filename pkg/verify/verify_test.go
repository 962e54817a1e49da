package verify

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
)

// renormalized is the textbook Q1.15 product (shift 15), which the
// hardware does not implement.
func renormalized(a, b fixed.Q15) mul.Product {
	p := mul.Reference(a, b)
	raw := fixed.Q15((p.Acc >> 15) & fixed.Mask)
	res := raw
	if p.Signs == 1 {
		res = raw.Negate()
	}
	return mul.Product{Raw: raw, Result: res, Signs: p.Signs, Acc: p.Acc}
}

// signBlind forgets the sign fix but reports the correct raw value.
func signBlind(a, b fixed.Q15) mul.Product {
	p := mul.Multiply(a, b)
	p.Result = p.Raw
	return p
}

func TestQuickCheck_Reference(t *testing.T) {
	if !QuickCheck(mul.Reference) {
		t.Fatalf("direct multiply should match the shift-and-add model: %+v",
			QuickMismatches(mul.Reference))
	}
	if !QuickCheck(mul.Multiply) {
		t.Fatal("golden model must match itself")
	}
}

func TestQuickCheck_RejectsWrongShift(t *testing.T) {
	if QuickCheck(renormalized) {
		t.Fatal("a 15-bit rescale must not pass")
	}
}

func TestQuickMismatches_SignBlind(t *testing.T) {
	ms := QuickMismatches(signBlind)
	if len(ms) == 0 {
		t.Fatal("a multiplier without the sign fix must fail")
	}
	for _, m := range ms {
		if m.RawDiffers() {
			t.Fatalf("%s*%s: raw should agree, got %+v", m.A, m.B, m)
		}
		if m.A.Negative() == m.B.Negative() {
			t.Fatalf("%s*%s: same-sign pair reported as mismatch", m.A, m.B)
		}
	}
}

func TestFingerprint(t *testing.T) {
	golden := GoldenFingerprint()
	if Fingerprint(mul.Reference) != golden {
		t.Fatal("reference fingerprint should equal the golden fingerprint")
	}
	if Fingerprint(renormalized) == golden {
		t.Fatal("a different implementation should have a different fingerprint")
	}
	if GoldenFingerprint() != golden {
		t.Fatal("fingerprint is not deterministic")
	}
}

func TestGoldenAndCheckVectors(t *testing.T) {
	pairs := QuickPairs()
	if len(pairs) != len(TestVectors)*len(TestVectors) {
		t.Fatalf("QuickPairs returned %d pairs", len(pairs))
	}
	vectors := Golden(pairs)
	if ms := CheckVectors(vectors); len(ms) != 0 {
		t.Fatalf("golden vectors should check clean, got %d mismatches", len(ms))
	}

	vectors[3].Result ^= 1
	ms := CheckVectors(vectors)
	if len(ms) != 1 || ms[0].A != vectors[3].A || ms[0].B != vectors[3].B {
		t.Fatalf("expected one mismatch at vector 3, got %+v", ms)
	}
	if ms[0].RawDiffers() {
		t.Fatal("only the result was corrupted")
	}
}

func smallConfig() Config {
	return Config{
		AFrom: 0x7FF0, ATo: 0x8010,
		BFrom: 0xFF00, BTo: 0x10000,
		NumWorkers:      4,
		CheckpointEvery: 8,
	}
}

func TestExhaustiveCheck_ReferenceRange(t *testing.T) {
	rep, err := ExhaustiveCheck(smallConfig())
	if err != nil {
		t.Fatalf("ExhaustiveCheck: %v", err)
	}
	if rep.Rows != 0x20 {
		t.Fatalf("Rows = %d, want 32", rep.Rows)
	}
	if rep.Checked != 0x20*0x100 {
		t.Fatalf("Checked = %d, want %d", rep.Checked, 0x20*0x100)
	}
	if len(rep.Mismatches) != 0 {
		t.Fatalf("unexpected mismatches: %+v", rep.Mismatches[0])
	}
}

func TestExhaustiveCheck_DeterministicFingerprint(t *testing.T) {
	cfg := smallConfig()
	cfg.NumWorkers = 1
	one, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.NumWorkers = 8
	cfg.CheckpointEvery = 5
	many, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if one.Fingerprint != many.Fingerprint {
		t.Fatalf("fingerprint depends on scheduling: %016x vs %016x", one.Fingerprint, many.Fingerprint)
	}

	cfg.Candidate = mul.Multiply
	golden, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if golden.Fingerprint != one.Fingerprint {
		t.Fatal("reference and golden sweeps should hash identically")
	}
}

func TestExhaustiveCheck_FindsMismatches(t *testing.T) {
	cfg := smallConfig()
	cfg.Candidate = signBlind
	rep, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Mismatches) == 0 {
		t.Fatal("sign-blind candidate should mismatch on mixed-sign rows")
	}
	for i := 1; i < len(rep.Mismatches); i++ {
		p, c := rep.Mismatches[i-1], rep.Mismatches[i]
		if p.A > c.A || (p.A == c.A && p.B >= c.B) {
			t.Fatalf("mismatches not sorted at %d", i)
		}
	}
	// Rows below 0x8000 are positive and columns are all negative.
	for _, m := range rep.Mismatches {
		if m.A.Negative() {
			t.Fatalf("negative row %s reported; both signs negative should agree", m.A)
		}
	}
}

func TestExhaustiveCheck_Resume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.ckpt")
	cfg := smallConfig()
	cfg.Candidate = signBlind
	fresh, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}

	cfg.Checkpoint = path
	if _, err := ExhaustiveCheck(cfg); err != nil {
		t.Fatal(err)
	}

	// Rewind the checkpoint to a batch boundary and let the sweep finish.
	ckpt, err := result.LoadCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}
	ckpt.NextRow = cfg.AFrom + 8
	ckpt.Digests = ckpt.Digests[:8]
	ckpt.Checked = 8 * int64(cfg.BTo-cfg.BFrom)
	var kept []result.Mismatch
	for _, m := range ckpt.Mismatches {
		if uint32(m.A) < ckpt.NextRow {
			kept = append(kept, m)
		}
	}
	ckpt.Mismatches = kept
	if err := result.SaveCheckpoint(path, ckpt); err != nil {
		t.Fatal(err)
	}

	var log bytes.Buffer
	cfg.Verbose = true
	cfg.Log = &log
	resumed, err := ExhaustiveCheck(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !resumed.Resumed {
		t.Fatal("sweep should report it resumed")
	}
	if !strings.Contains(log.String(), "Resuming at row") {
		t.Fatalf("missing resume log line:\n%s", log.String())
	}
	if resumed.Fingerprint != fresh.Fingerprint || resumed.Checked != fresh.Checked {
		t.Fatalf("resumed sweep %+v differs from fresh %+v", resumed, fresh)
	}
	if len(resumed.Mismatches) != len(fresh.Mismatches) {
		t.Fatalf("resumed %d mismatches, fresh %d", len(resumed.Mismatches), len(fresh.Mismatches))
	}
}

func TestExhaustiveCheck_CheckpointRangeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.ckpt")
	cfg := smallConfig()
	cfg.Checkpoint = path
	if _, err := ExhaustiveCheck(cfg); err != nil {
		t.Fatal(err)
	}
	cfg.BFrom = 0xFE00
	if _, err := ExhaustiveCheck(cfg); err == nil {
		t.Fatal("resuming a checkpoint for another range should fail")
	}
}

func TestExhaustiveCheck_BadRange(t *testing.T) {
	for _, cfg := range []Config{
		{AFrom: 5, ATo: 5},
		{AFrom: 0, ATo: 0x10001},
		{BFrom: 10, BTo: 2},
	} {
		if _, err := ExhaustiveCheck(cfg); err == nil {
			t.Errorf("ExhaustiveCheck(%+v) should fail", cfg)
		}
	}
}
