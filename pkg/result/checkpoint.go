package result

import (
	"encoding/gob"
	"os"
)

// Checkpoint holds state for resuming a sweep. Rows are values of operand
// a; every row below NextRow has been fully checked against all b.
type Checkpoint struct {
	AFrom, ATo uint32
	BFrom, BTo uint32
	NextRow    uint32
	Checked    int64
	Mismatches []Mismatch
	Digests    []uint64 // one per completed row, in row order
}

// SaveCheckpoint writes sweep state to a file via a temporary file and rename.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(f).Encode(ckpt); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadCheckpoint loads sweep state from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	return &ckpt, nil
}
