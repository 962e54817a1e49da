package dut

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
	"github.com/oisee/q15mul/pkg/verify"
)

// CheckConfig holds device check configuration.
type CheckConfig struct {
	Binary    string
	Args      []string
	Env       []string
	Pairs     [][2]fixed.Q15 // defaults to verify.QuickPairs()
	BatchSize int            // pairs per request (defaults to 4096)
	Verbose   bool
	Log       io.Writer
}

// Check runs the configured pairs through the device and compares raw and
// result with the golden model.
func Check(cfg CheckConfig) (*result.Table, error) {
	if len(cfg.Pairs) == 0 {
		cfg.Pairs = verify.QuickPairs()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 4096
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}

	startTime := time.Now()
	p, err := Start(cfg.Binary, cfg.Args, cfg.Env...)
	if err != nil {
		return nil, err
	}

	results := result.NewTable()
	for off := 0; off < len(cfg.Pairs); off += cfg.BatchSize {
		end := off + cfg.BatchSize
		if end > len(cfg.Pairs) {
			end = len(cfg.Pairs)
		}
		batch := cfg.Pairs[off:end]
		resp, err := p.Run(batch)
		if err != nil {
			p.Close()
			return nil, err
		}
		for i, pr := range batch {
			want := mul.Multiply(pr[0], pr[1])
			if want.Raw != resp[i].Raw || want.Result != resp[i].Result {
				results.Add(result.Mismatch{
					A: pr[0], B: pr[1],
					WantRaw: want.Raw, WantResult: want.Result,
					GotRaw: resp[i].Raw, GotResult: resp[i].Result,
				})
			}
		}
		if cfg.Verbose {
			fmt.Fprintf(cfg.Log, "  Pairs: %d/%d, Mismatches: %d\n", end, len(cfg.Pairs), results.Len())
		}
	}

	if err := p.Close(); err != nil {
		return nil, fmt.Errorf("dut: %s exited: %w", cfg.Binary, err)
	}
	if cfg.Verbose {
		fmt.Fprintf(cfg.Log, "Device check done (%.1fs)\n", time.Since(startTime).Seconds())
	}
	return results, nil
}
