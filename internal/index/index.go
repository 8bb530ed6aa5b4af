// Package index persists embedding vectors for note files so search can
// rank notes semantically without re-embedding them on every query.
// Vectors are stored as little-endian float64 binary files under the
// application data directory, keyed by a hash of the note path.
package index

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
)

// Index maps note files to their stored embedding vectors
type Index struct {
	dir string
}

// New opens the embedding index rooted at dir, creating it if needed
func New(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create embedding index: %w", err)
	}
	return &Index{dir: dir}, nil
}

// VectorPath returns the on-disk location of a note's vector file
func (ix *Index) VectorPath(notePath string) string {
	h := fnv.New64a()
	h.Write([]byte(notePath))
	return filepath.Join(ix.dir, fmt.Sprintf("%016x.bin", h.Sum64()))
}

// Has reports whether a vector is stored for the note
func (ix *Index) Has(notePath string) bool {
	_, err := os.Stat(ix.VectorPath(notePath))
	return err == nil
}

// Put stores the note's embedding vector
func (ix *Index) Put(notePath string, vec []float64) error {
	if err := Validate(vec); err != nil {
		return err
	}
	return writeVector(ix.VectorPath(notePath), vec)
}

// Get loads the note's embedding vector
func (ix *Index) Get(notePath string) ([]float64, error) {
	return readVector(ix.VectorPath(notePath))
}

// Remove deletes the note's vector, tolerating a missing file
func (ix *Index) Remove(notePath string) {
	_ = os.Remove(ix.VectorPath(notePath))
}

// writeVector writes a vector as a flat little-endian float64 array
func writeVector(path string, vec []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create vector file: %w", err)
	}
	defer file.Close()

	for _, val := range vec {
		if err := binary.Write(file, binary.LittleEndian, val); err != nil {
			return fmt.Errorf("failed to write vector value: %w", err)
		}
	}
	return nil
}

func readVector(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat vector file: %w", err)
	}

	size := stat.Size()
	if size == 0 || size%8 != 0 {
		return nil, fmt.Errorf("invalid vector file size: %d", size)
	}

	vec := make([]float64, size/8)
	for i := range vec {
		if err := binary.Read(file, binary.LittleEndian, &vec[i]); err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("unexpected EOF at element %d", i)
			}
			return nil, fmt.Errorf("failed to read vector value at %d: %w", i, err)
		}
	}

	return vec, nil
}

// Validate rejects empty vectors and NaN/Inf values
func Validate(vec []float64) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, val := range vec {
		if val != val {
			return fmt.Errorf("embedding contains NaN at index %d", i)
		}
		if val > 1e308 || val < -1e308 {
			return fmt.Errorf("embedding contains invalid value at index %d: %v", i, val)
		}
	}
	return nil
}
