package result

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/oisee/q15mul/pkg/fixed"
)

// Vector is one line of a golden vector file or a hardware dump.
// Values are encoded as "0x%04x" strings.
type Vector struct {
	A      fixed.Q15 `json:"a"`
	B      fixed.Q15 `json:"b"`
	Raw    fixed.Q15 `json:"raw"`
	Result fixed.Q15 `json:"result"`
}

// VectorFile is the on-disk layout of a vector file.
type VectorFile struct {
	Shift   int      `json:"shift"`
	Vectors []Vector `json:"vectors"`
}

// WriteJSON writes vectors as an indented JSON document.
func WriteJSON(w io.Writer, shift int, vectors []Vector) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(VectorFile{Shift: shift, Vectors: vectors})
}

// ReadJSON reads a vector file. A file recorded with a different rescale
// shift than want is rejected; a zero shift in the file is accepted.
func ReadJSON(r io.Reader, want int) ([]Vector, error) {
	var vf VectorFile
	if err := json.NewDecoder(r).Decode(&vf); err != nil {
		return nil, fmt.Errorf("result: decode vectors: %w", err)
	}
	if vf.Shift != 0 && vf.Shift != want {
		return nil, fmt.Errorf("result: vectors recorded with shift %d, model uses %d", vf.Shift, want)
	}
	return vf.Vectors, nil
}
