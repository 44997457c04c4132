package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a layout to indented JSON bytes.
// Declaration order of elements, groups, and links is preserved exactly;
// the arrays are never reordered.
func MarshalLayout(l *Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeLayoutTo(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout deserializes JSON bytes to a layout and validates it.
func UnmarshalLayout(data []byte) (*Layout, error) {
	return readLayoutFrom(bytes.NewReader(data))
}

// WriteLayoutFile writes a layout to a JSON file.
// The file is created with 0644 permissions.
func WriteLayoutFile(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeLayoutTo(l, f)
}

// WriteLayout writes a layout as JSON to an io.Writer.
// Use MarshalLayout for in-memory serialization or WriteLayoutFile for files.
func WriteLayout(l *Layout, w io.Writer) error {
	return writeLayoutTo(l, w)
}

// ReadLayoutFile reads a JSON file and returns the decoded layout.
// Returns validation errors for structurally inconsistent layouts.
func ReadLayoutFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readLayoutFrom(f)
}

// ReadLayout decodes a JSON layout from an io.Reader.
// Use ReadLayoutFile for files or pass bytes.NewReader for in-memory data.
func ReadLayout(r io.Reader) (*Layout, error) {
	return readLayoutFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeLayoutTo(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readLayoutFrom(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return &l, nil
}
