package model

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// Encode serialises a forest for storage
func Encode(f *Forest) ([]byte, error) {
	if f == nil {
		return nil, ErrUntrained
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, fmt.Errorf("encoding forest: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores a forest written by Encode
func Decode(data []byte) (*Forest, error) {
	var f Forest
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding forest: %w", err)
	}
	if len(f.Trees) == 0 {
		return nil, ErrUntrained
	}
	return &f, nil
}
