package manifest

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Parse decodes a manifest document. The document root must be a mapping.
func Parse(data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", ErrFormat, err)
	}
	return decodeDocument(&doc)
}

// ParseReader decodes a manifest document read from r.
func ParseReader(r io.Reader) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse manifest: %w", ErrFormat, err)
	}
	return decodeDocument(&doc)
}

// FromTree converts a generic tree, as produced by decoding YAML into an
// any, into a Manifest. The tree must be a mapping.
func FromTree(tree any) (*Manifest, error) {
	if _, ok := tree.(map[string]any); !ok {
		return nil, formatErrorf("manifest must be a mapping, got %T", tree)
	}

	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("%w: encode manifest: %w", ErrFormat, err)
	}
	return Parse(data)
}

func decodeDocument(doc *yaml.Node) (*Manifest, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, formatErrorf("manifest must be a mapping")
	}

	var m Manifest
	if err := root.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: decode manifest: %w", ErrFormat, err)
	}
	return &m, nil
}
