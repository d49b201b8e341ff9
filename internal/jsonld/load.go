package jsonld

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadFromReader reads a JSON-LD context document and normalizes it. The
// document may be a bare context object or the usual {"@context": {...}}
// envelope; both forms are accepted since JSON-LD documents in the wild use
// either.
func LoadFromReader(r io.Reader) (*Context, error) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode context document: %w", err)
	}

	if inner, ok := raw["@context"]; ok {
		asMap, ok := inner.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("\"@context\" value must be an object")
		}
		raw = asMap
	}

	return Normalize(raw)
}

// LoadFromFile reads and normalizes a JSON-LD context document from a file
// path.
func LoadFromFile(path string) (*Context, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open context file %q: %w", path, err)
	}
	defer f.Close()

	ctx, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("load context file %q: %w", path, err)
	}
	return ctx, nil
}
