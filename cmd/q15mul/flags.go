package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/verify"
)

// rangeValue is an inclusive hex operand range "lo:hi", stored half-open.
type rangeValue struct {
	from, to uint32
	set      bool
}

var _ pflag.Value = (*rangeValue)(nil)

func (r *rangeValue) String() string {
	if !r.set {
		return ""
	}
	return fmt.Sprintf("%04x:%04x", r.from, r.to-1)
}

func (r *rangeValue) Set(s string) error {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		// A single value is a one-element range.
		hi = lo
	}
	from, err := fixed.ParseHex(lo)
	if err != nil {
		return err
	}
	to, err := fixed.ParseHex(hi)
	if err != nil {
		return err
	}
	if from > to {
		return fmt.Errorf("range %s: lo > hi", s)
	}
	r.from, r.to, r.set = uint32(from), uint32(to)+1, true
	return nil
}

func (r *rangeValue) Type() string {
	return "range"
}

// orFull returns r, or the whole operand space when r was never set.
func (r rangeValue) orFull() rangeValue {
	if r.set {
		return r
	}
	return rangeValue{from: 0, to: verify.OperandSpace, set: true}
}
