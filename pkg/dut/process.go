package dut

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/oisee/q15mul/pkg/fixed"
)

// Process manages a device-under-test child process: an RTL simulator or a
// firmware harness that multiplies operand pairs read from stdin.
//
// Wire format, little endian:
//
//	request:  uint32 count, then count x uint32(a | b<<16)
//	response: count x uint32(raw | result<<16)
type Process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	mu     sync.Mutex // serialize batches
}

// Response is the device output for one pair.
type Response struct {
	Raw, Result fixed.Q15
}

// Start launches the device binary with args. Extra environment entries
// are appended to the parent's environment.
func Start(path string, args []string, env ...string) (*Process, error) {
	cmd := exec.Command(path, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("dut: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("dut: stdout pipe: %w", err)
	}
	// Stderr goes to parent's stderr for diagnostics.
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("dut: start %s: %w", path, err)
	}
	return &Process{cmd: cmd, stdin: stdin, stdout: stdout}, nil
}

// Run sends one batch of pairs and reads back one response per pair.
func (p *Process) Run(pairs [][2]fixed.Q15) ([]Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w := bufio.NewWriter(p.stdin)
	if err := binary.Write(w, binary.LittleEndian, uint32(len(pairs))); err != nil {
		return nil, fmt.Errorf("dut: write count: %w", err)
	}
	packed := make([]uint32, len(pairs))
	for i, pr := range pairs {
		packed[i] = uint32(pr[0]) | uint32(pr[1])<<16
	}
	if err := binary.Write(w, binary.LittleEndian, packed); err != nil {
		return nil, fmt.Errorf("dut: write pairs: %w", err)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("dut: flush: %w", err)
	}

	if len(pairs) == 0 {
		return nil, nil
	}
	out := make([]uint32, len(pairs))
	if err := binary.Read(p.stdout, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("dut: read responses: %w", err)
	}
	resp := make([]Response, len(out))
	for i, v := range out {
		resp[i] = Response{Raw: fixed.Q15(v), Result: fixed.Q15(v >> 16)}
	}
	return resp, nil
}

// Close shuts down the device process.
func (p *Process) Close() error {
	p.stdin.Close()
	return p.cmd.Wait()
}

// Serve is the device side of the protocol: it answers batches from r on
// w using f until r is exhausted. Harnesses written in Go, and the tests,
// use it to stand in for a simulator.
func Serve(r io.Reader, w io.Writer, f func(a, b fixed.Q15) Response) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		var count uint32
		if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("dut: read count: %w", err)
		}
		packed := make([]uint32, count)
		if err := binary.Read(br, binary.LittleEndian, packed); err != nil {
			return fmt.Errorf("dut: read pairs: %w", err)
		}
		for i, v := range packed {
			resp := f(fixed.Q15(v), fixed.Q15(v>>16))
			packed[i] = uint32(resp.Raw) | uint32(resp.Result)<<16
		}
		if err := binary.Write(bw, binary.LittleEndian, packed); err != nil {
			return fmt.Errorf("dut: write responses: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("dut: flush: %w", err)
		}
	}
}
