package verify

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
)

// OperandSpace is the number of distinct 16-bit operands.
const OperandSpace = 1 << 16

// Config holds sweep configuration. Zero ranges mean the full operand space.
type Config struct {
	AFrom, ATo      uint32 // rows of operand a, [AFrom, ATo)
	BFrom, BTo      uint32 // columns of operand b, [BFrom, BTo)
	NumWorkers      int    // Number of parallel workers (defaults to NumCPU)
	Candidate       Func   // Implementation under test (defaults to mul.Reference)
	Checkpoint      string // Checkpoint file; resumed when it exists
	CheckpointEvery int    // Rows per checkpoint batch (defaults to 256)
	Verbose         bool   // Print progress to Log
	Log             io.Writer
}

// Report summarizes a sweep.
type Report struct {
	Rows        int
	Checked     int64
	Mismatches  []result.Mismatch
	Fingerprint uint64
	Resumed     bool
}

func (cfg *Config) normalize() error {
	if cfg.AFrom == 0 && cfg.ATo == 0 {
		cfg.ATo = OperandSpace
	}
	if cfg.BFrom == 0 && cfg.BTo == 0 {
		cfg.BTo = OperandSpace
	}
	if cfg.ATo > OperandSpace || cfg.BTo > OperandSpace {
		return fmt.Errorf("verify: range exceeds 16-bit operand space")
	}
	if cfg.AFrom >= cfg.ATo || cfg.BFrom >= cfg.BTo {
		return fmt.Errorf("verify: empty range a=[%#x,%#x) b=[%#x,%#x)",
			cfg.AFrom, cfg.ATo, cfg.BFrom, cfg.BTo)
	}
	if cfg.Candidate == nil {
		cfg.Candidate = mul.Reference
	}
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 256
	}
	if cfg.Log == nil {
		cfg.Log = os.Stderr
	}
	return nil
}

// ExhaustiveCheck compares cfg.Candidate with the golden model on every
// pair in the configured range. With the default candidate it proves that
// the shift-and-add datapath and a single wide multiply agree bit for bit.
func ExhaustiveCheck(cfg Config) (*Report, error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	pool := NewWorkerPool(cfg.NumWorkers)
	rep := &Report{}
	next := cfg.AFrom
	var digests []uint64
	var resumedChecked int64

	if cfg.Checkpoint != "" {
		ckpt, err := result.LoadCheckpoint(cfg.Checkpoint)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("verify: load checkpoint: %w", err)
		default:
			if ckpt.AFrom != cfg.AFrom || ckpt.ATo != cfg.ATo ||
				ckpt.BFrom != cfg.BFrom || ckpt.BTo != cfg.BTo {
				return nil, fmt.Errorf("verify: checkpoint %s covers a different range", cfg.Checkpoint)
			}
			next = ckpt.NextRow
			digests = ckpt.Digests
			resumedChecked = ckpt.Checked
			for _, m := range ckpt.Mismatches {
				pool.Results.Add(m)
			}
			rep.Resumed = true
			if cfg.Verbose {
				fmt.Fprintf(cfg.Log, "Resuming at row %#04x (%d pairs checked)\n", next, resumedChecked)
			}
		}
	}

	startTime := time.Now()
	for next < cfg.ATo {
		end := next + uint32(cfg.CheckpointEvery)
		if end > cfg.ATo {
			end = cfg.ATo
		}

		tasks := make([]RowTask, 0, end-next)
		for a := next; a < end; a++ {
			tasks = append(tasks, RowTask{
				A:     fixed.Q15(a),
				BFrom: cfg.BFrom,
				BTo:   cfg.BTo,
				Slot:  int(a - next),
			})
		}
		batch := make([]uint64, len(tasks))
		pool.RunRows(cfg.Candidate, tasks, batch)
		digests = append(digests, batch...)
		next = end

		checked, _ := pool.Stats()
		if cfg.Checkpoint != "" {
			err := result.SaveCheckpoint(cfg.Checkpoint, &result.Checkpoint{
				AFrom: cfg.AFrom, ATo: cfg.ATo,
				BFrom: cfg.BFrom, BTo: cfg.BTo,
				NextRow:    next,
				Checked:    resumedChecked + checked,
				Mismatches: pool.Results.Mismatches(),
				Digests:    digests,
			})
			if err != nil {
				return nil, fmt.Errorf("verify: save checkpoint: %w", err)
			}
		}
		if cfg.Verbose {
			fmt.Fprintf(cfg.Log, "  Rows %#04x/%#04x, Checked: %d, Mismatches: %d, Elapsed: %s\n",
				next, cfg.ATo, resumedChecked+checked, pool.Results.Len(),
				time.Since(startTime).Round(time.Millisecond))
		}
	}

	checked, _ := pool.Stats()
	rep.Rows = int(cfg.ATo - cfg.AFrom)
	rep.Checked = resumedChecked + checked
	rep.Mismatches = pool.Results.Mismatches()
	rep.Fingerprint = combineDigests(digests)
	return rep, nil
}
