package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/flashtrack/pkg/errors"
)

// ReadJSON decodes a course file from r.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed,
// INVALID_INPUT for an unknown color, and MALFORMED_GRAPH if an edge
// references a node index outside the node list. A missing color defaults
// to [DefaultColor]. ReadJSON does not close r.
func ReadJSON(r io.Reader) (File, error) {
	var data file
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return decodeFile(data)
}

// ImportJSON reads a course file at path. See [ReadJSON].
func ImportJSON(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes f as indented JSON.
// The output can be re-imported with [ReadJSON].
func WriteJSON(f File, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(encodeFile(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the compact JSON encoding of f, as stored by the
// course stores.
func MarshalJSON(f File) ([]byte, error) {
	data, err := json.Marshal(encodeFile(f))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes data produced by [MarshalJSON] or [WriteJSON].
func UnmarshalJSON(data []byte) (File, error) {
	var in file
	if err := json.Unmarshal(data, &in); err != nil {
		return File{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}
	return decodeFile(in)
}

// ExportJSON writes f to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(f File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteJSON(f, out)
}
