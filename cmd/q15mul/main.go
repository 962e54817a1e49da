package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oisee/q15mul/pkg/fixed"
	"github.com/oisee/q15mul/pkg/mul"
)

// UsageError reports a malformed invocation: wrong operand count or bad flags.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

var (
	errOperandCount = errors.New("want exactly two hex operands")
	errMismatch     = errors.New("mismatches found")
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(report(os.Stderr, rootCmd, err))
	}
}

// report prints err and returns the process exit code.
func report(w io.Writer, root *cobra.Command, err error) int {
	fmt.Fprintf(w, "%s: %v\n", root.Name(), err)
	var ue *UsageError
	if errors.As(err, &ue) {
		fmt.Fprintf(w, "Usage: %s\n", root.UseLine())
		return 2
	}
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "q15mul A B",
		Short: "Q1.15 shift-and-add multiplier golden model",
		Long: `Multiply two 16-bit Q1.15 operands exactly as the hardware unit does:
sign-magnitude conversion, 16 shift-and-add cycles, a 10-bit rescale,
a 16-bit mask and a sign fix when the operand signs differ.

Operands are hex: 7fff, 0x8000, 1234h. Put "--" before negative
operands such as -1.`,
		Args:          exactOperands(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b, err := parseOperands(args)
			if err != nil {
				return err
			}
			printProduct(cmd.OutOrStdout(), mul.Multiply(a, b))
			return nil
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(
		newTraceCmd(),
		newVectorsCmd(),
		newCheckCmd(),
		newSweepCmd(),
		newDUTCmd(),
		newFingerprintCmd(),
	)
	return rootCmd
}

func exactOperands(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &UsageError{Err: fmt.Errorf("%w, got %d", errOperandCount, len(args))}
		}
		return nil
	}
}

func parseOperands(args []string) (a, b fixed.Q15, err error) {
	if a, err = fixed.ParseHex(args[0]); err != nil {
		return 0, 0, err
	}
	if b, err = fixed.ParseHex(args[1]); err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// printProduct writes the two contract lines: the raw value before the
// sign fix, then the final product.
func printProduct(w io.Writer, p mul.Product) {
	fmt.Fprintf(w, "before sign fix: %s\n", p.Raw)
	fmt.Fprintf(w, "after sign fix: %s\n", p.Result)
}
