package buildenv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format for environments and reports.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported environment file extension %q", filepath.Ext(path))
}

// Marshal encodes v in the given format.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(v)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, v any, format Format) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Encode writes the environment to w.
func (e *Environment) Encode(w io.Writer, format Format) error {
	b, err := Marshal(e, format)
	if err != nil {
		return fmt.Errorf("encode environment: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// Load reads an environment file. The format is taken from the extension.
func Load(path string) (*Environment, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	env := New()
	if err := Unmarshal(data, env, format); err != nil {
		return nil, fmt.Errorf("decode environment %s: %w", path, err)
	}
	if env.Vars == nil {
		env.Vars = make(map[string]string)
	}
	return env, nil
}

// Save writes the environment to path. The format is taken from the extension.
func (e *Environment) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	b, err := Marshal(e, format)
	if err != nil {
		return fmt.Errorf("encode environment: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write environment: %w", err)
	}
	return nil
}
