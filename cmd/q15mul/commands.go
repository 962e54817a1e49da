package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oisee/q15mul/pkg/dut"
	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
	"github.com/oisee/q15mul/pkg/result"
	"github.com/oisee/q15mul/pkg/unit"
	"github.com/oisee/q15mul/pkg/verify"
)

// maxVectors caps generated vector files.
const maxVectors = 1 << 22

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace A B",
		Short: "Show the per-cycle shift-and-add trace of one product",
		Args:  exactOperands(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parseOperands(args)
			if err != nil {
				return err
			}
			p, steps := mul.Trace(a, b)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Operands: %s (%+.6f) * %s (%+.6f), negative operands: %d\n",
				a, a.Float(), b, b.Float(), p.Signs)
			result.PrintTrace(w, steps)
			fmt.Fprintf(w, "Accumulator: 0x%08x >> %d\n", p.Acc, mul.RescaleShift)
			fmt.Fprintf(w, "Flags: %s\n", unit.FlagString(p.Flags))
			printProduct(w, p)
			return nil
		},
	}
}

func newVectorsCmd() *cobra.Command {
	var output string
	var aRange, bRange rangeValue

	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Emit golden test vectors as JSON",
		Long: `Emit golden vectors for a testbench. Without ranges the quick-check
vector cross product is written; with ranges every pair of the two
inclusive hex ranges is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := verify.QuickPairs()
			if aRange.set || bRange.set {
				ar, br := aRange.orFull(), bRange.orFull()
				n := uint64(ar.to-ar.from) * uint64(br.to-br.from)
				if n > maxVectors {
					return &UsageError{Err: fmt.Errorf("%d vectors requested, limit is %d", n, maxVectors)}
				}
				pairs = make([][2]fixed.Q15, 0, n)
				for a := ar.from; a < ar.to; a++ {
					for b := br.from; b < br.to; b++ {
						pairs = append(pairs, [2]fixed.Q15{fixed.Q15(a), fixed.Q15(b)})
					}
				}
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := result.WriteJSON(w, mul.RescaleShift, verify.Golden(pairs)); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Written %d vectors to %s\n", len(pairs), output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON file path (default stdout)")
	cmd.Flags().Var(&aRange, "a-range", "Operand a range, inclusive hex lo:hi")
	cmd.Flags().Var(&bRange, "b-range", "Operand b range, inclusive hex lo:hi")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "check [vectors.json]",
		Short: "Check recorded vectors (e.g. a hardware dump) against the golden model",
		Args:  exactFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			vectors, err := result.ReadJSON(f, mul.RescaleShift)
			if err != nil {
				return err
			}
			ms := verify.CheckVectors(vectors)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Checked %d vectors, %d mismatches\n", len(vectors), len(ms))
			if len(ms) > 0 {
				result.PrintMismatches(w, ms, limit)
				return errMismatch
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum mismatches to print (0 = all)")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var aRange, bRange rangeValue
	var cfg verify.Config
	var limit int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Prove the shift-and-add model equals a direct multiply over a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ar, br := aRange.orFull(), bRange.orFull()
			cfg.AFrom, cfg.ATo = ar.from, ar.to
			cfg.BFrom, cfg.BTo = br.from, br.to
			cfg.Log = cmd.ErrOrStderr()

			w := cmd.OutOrStdout()
			if cfg.Verbose {
				fmt.Fprintf(cfg.Log, "Q1.15 multiplier sweep\n")
				fmt.Fprintf(cfg.Log, "  a: %s\n  b: %s\n", ar.String(), br.String())
				fmt.Fprintf(cfg.Log, "  Rescale shift: %d\n", mul.RescaleShift)
			}

			rep, err := verify.ExhaustiveCheck(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Checked %d pairs over %d rows, %d mismatches\n",
				rep.Checked, rep.Rows, len(rep.Mismatches))
			fmt.Fprintf(w, "Fingerprint: 0x%016x\n", rep.Fingerprint)
			if len(rep.Mismatches) > 0 {
				result.PrintMismatches(w, rep.Mismatches, limit)
				return errMismatch
			}
			return nil
		},
	}
	cmd.Flags().Var(&aRange, "a-range", "Operand a range, inclusive hex lo:hi (default all)")
	cmd.Flags().Var(&bRange, "b-range", "Operand b range, inclusive hex lo:hi (default all)")
	cmd.Flags().IntVar(&cfg.NumWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().StringVar(&cfg.Checkpoint, "checkpoint", "", "Checkpoint file for resume")
	cmd.Flags().IntVar(&cfg.CheckpointEvery, "checkpoint-every", 256, "Rows per checkpoint")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum mismatches to print (0 = all)")
	return cmd
}

func newDUTCmd() *cobra.Command {
	var vectorsPath string
	var batch, limit int
	var verbose bool

	cmd := &cobra.Command{
		Use:   "dut BINARY [args...]",
		Short: "Run quick-check vectors through an external device binary",
		Long: `Start BINARY (an RTL simulator or firmware harness speaking the
q15mul pipe protocol) and compare its raw and final products with the
golden model. Arguments after BINARY are passed to the device.`,
		Args: minFiles(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := dut.CheckConfig{
				Binary:    args[0],
				Args:      args[1:],
				BatchSize: batch,
				Verbose:   verbose,
				Log:       cmd.ErrOrStderr(),
			}
			if vectorsPath != "" {
				pairs, err := readPairs(vectorsPath)
				if err != nil {
					return err
				}
				cfg.Pairs = pairs
			}

			tab, err := dut.Check(cfg)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			ms := tab.Mismatches()
			fmt.Fprintf(w, "Device %s: %d mismatches\n", cfg.Binary, len(ms))
			if len(ms) > 0 {
				result.PrintMismatches(w, ms, limit)
				return errMismatch
			}
			return nil
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&vectorsPath, "vectors", "", "Take operand pairs from a vector file")
	cmd.Flags().IntVar(&batch, "batch", 4096, "Pairs per request")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum mismatches to print (0 = all)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	return cmd
}

func newFingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the golden digest of the quick-check vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "0x%016x\n", verify.GoldenFingerprint())
			return nil
		},
	}
}

func readPairs(path string) ([][2]fixed.Q15, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return pairsOf(f)
}

func pairsOf(r io.Reader) ([][2]fixed.Q15, error) {
	vectors, err := result.ReadJSON(r, mul.RescaleShift)
	if err != nil {
		return nil, err
	}
	pairs := make([][2]fixed.Q15, len(vectors))
	for i, v := range vectors {
		pairs[i] = [2]fixed.Q15{v.A, v.B}
	}
	return pairs, nil
}

func exactFiles(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

func minFiles(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}
