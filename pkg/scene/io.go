package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphlive/pkg/errors"
)

// Format is a scene encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything other
// than .yaml or .yml is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Marshal encodes sc.
func Marshal(sc *Scene, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, sc, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes sc to w. JSON output is indented.
func Write(w io.Writer, sc *Scene, f Format) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown scene format %q", f)
	}
}

// Read decodes and validates a scene.
func Read(r io.Reader, f Format) (*Scene, error) {
	var sc Scene
	switch f {
	case FormatJSON, "":
		if err := json.NewDecoder(r).Decode(&sc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown scene format %q", f)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ReadFile reads a scene file, choosing the format by extension.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}

// WriteFile writes a scene file, choosing the format by extension.
func WriteFile(path string, sc *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, sc, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
