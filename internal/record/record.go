// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record normalizes identifiers and search text, and decodes the
// structured data files (JSON or YAML) that make up a regulation data tree.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Normalize trims surrounding whitespace and lowercases s. Every identifier
// lookup and every search comparison goes through Normalize.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Extensions lists the recognized structured-data file extensions in the
// order they are tried when a caller probes for a file by base name.
var Extensions = []string{".json", ".yaml", ".yml"}

// IsRecordFile reports whether name has a recognized extension.
func IsRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// DecodeFile reads path and decodes it into v. JSON files are decoded
// directly. YAML files are re-encoded as JSON first, keeping mapping keys in
// document order, so types with custom UnmarshalJSON methods serve both
// formats.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Decode(filepath.Ext(path), data, v)
}

// Decode decodes data of the format implied by ext into v.
func Decode(ext string, data []byte, v any) error {
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
		return nil
	case ".yaml", ".yml":
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
		var buf bytes.Buffer
		if err := yamlToJSON(&buf, &doc); err != nil {
			return fmt.Errorf("converting YAML: %w", err)
		}
		if err := json.Unmarshal(buf.Bytes(), v); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported file extension %q", ext)
	}
}

// yamlToJSON writes n as JSON. Mapping keys keep their document order.
func yamlToJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return yamlToJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return yamlToJSON(buf, n.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := yamlToJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := yamlToJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(val)
	default:
		return fmt.Errorf("unsupported YAML node at line %d", n.Line)
	}
	return nil
}
