package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteJSON encodes v as indented JSON and writes it to w.
// Results, graphs and manifests all serialize this way.
func WriteJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes v to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(v, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
