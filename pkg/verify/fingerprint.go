package verify

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
)

// putEntry hashes one (a, b, raw, result) record.
func putEntry(d *xxhash.Digest, a, b fixed.Q15, p mul.Product) {
	var buf [8]byte
	binary.LittleEndian.PutUint16(buf[0:], uint16(a))
	binary.LittleEndian.PutUint16(buf[2:], uint16(b))
	binary.LittleEndian.PutUint16(buf[4:], uint16(p.Raw))
	binary.LittleEndian.PutUint16(buf[6:], uint16(p.Result))
	d.Write(buf[:])
}

// combineDigests folds per-row digests in row order, so the result does
// not depend on which worker finished first.
func combineDigests(rows []uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, r := range rows {
		binary.LittleEndian.PutUint64(buf[:], r)
		d.Write(buf[:])
	}
	return d.Sum64()
}

// Fingerprint computes a digest of f over the TestVectors cross product.
// Implementations with different fingerprints are guaranteed to differ.
func Fingerprint(f Func) uint64 {
	rows := make([]uint64, len(TestVectors))
	for i, a := range TestVectors {
		d := xxhash.New()
		for _, b := range TestVectors {
			putEntry(d, a, b, f(a, b))
		}
		rows[i] = d.Sum64()
	}
	return combineDigests(rows)
}

// GoldenFingerprint is Fingerprint of the golden model.
func GoldenFingerprint() uint64 {
	return Fingerprint(mul.Multiply)
}
