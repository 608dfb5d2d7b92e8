package layout

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vantagedata/dashlayout/pkg/errors"
)

// Format is a layout document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from a file extension; anything other than
// .yaml or .yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a configuration document. A bare item list is accepted as
// well as a full configuration.
func Decode(data []byte, format Format) (Configuration, error) {
	var cfg Configuration
	var err error

	trimmed := bytes.TrimSpace(data)
	switch format {
	case FormatYAML:
		var probe yaml.Node
		if err = yaml.Unmarshal(trimmed, &probe); err == nil && isSequence(&probe) {
			err = yaml.Unmarshal(trimmed, &cfg.Items)
		} else if err == nil {
			err = yaml.Unmarshal(trimmed, &cfg)
		}
	default:
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &cfg.Items)
		} else {
			err = json.Unmarshal(trimmed, &cfg)
		}
	}
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode %s layout", format)
	}
	return cfg, nil
}

func isSequence(n *yaml.Node) bool {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	return n.Kind == yaml.SequenceNode
}

// Encode renders a configuration document.
func Encode(cfg Configuration, format Format) ([]byte, error) {
	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ReadFile decodes the layout file at path.
func ReadFile(path string) (Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Configuration{}, err
	}
	return Decode(data, FormatFor(path))
}

// WriteFile encodes cfg to path.
func WriteFile(path string, cfg Configuration) error {
	data, err := Encode(cfg, FormatFor(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
