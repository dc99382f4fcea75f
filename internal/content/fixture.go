package content

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/apd/v3"
	"gopkg.in/yaml.v3"
)

// TypeKey names the node type in YAML fixtures.
const TypeKey = "_type"

// DefaultNodeType is used for fixture nodes without a TypeKey.
const DefaultNodeType = "folder"

// ImportYAML creates the nodes described by a YAML document under
// parentPath. Mappings become nodes, scalars become properties and
// sequences become multi-valued properties:
//
//	beans:
//	  _type: folder
//	  article:
//	    _type: bean:definition
//	    label: Article
//	    price: !decimal 9.99
//	    tags: [news, long-form]
//
// Key order is preserved.
func ImportYAML(s *Session, parentPath string, data []byte) error {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fixture root must be a mapping", root.Line)
	}
	return importChildren(s, parentPath, root)
}

// ImportYAMLFile is ImportYAML for a file.
func ImportYAMLFile(s *Session, parentPath, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := ImportYAML(s, parentPath, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func importChildren(s *Session, parentPath string, m *yaml.Node) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		if key.Value == TypeKey {
			continue
		}
		if err := importEntry(s, parentPath, key.Value, val); err != nil {
			return err
		}
	}
	return nil
}

func importEntry(s *Session, parentPath, name string, val *yaml.Node) error {
	switch val.Kind {
	case yaml.MappingNode:
		n, err := s.AddNode(parentPath, name, nodeType(val))
		if err != nil {
			return fmt.Errorf("line %d: %w", val.Line, err)
		}
		return importChildren(s, n.Path(), val)
	case yaml.SequenceNode:
		items := make([]any, 0, len(val.Content))
		for _, item := range val.Content {
			v, err := scalar(item)
			if err != nil {
				return fmt.Errorf("line %d: %s: %w", item.Line, name, err)
			}
			items = append(items, v)
		}
		return s.SetProperty(parentPath, name, items)
	case yaml.ScalarNode:
		v, err := scalar(val)
		if err != nil {
			return fmt.Errorf("line %d: %s: %w", val.Line, name, err)
		}
		if v == nil {
			return nil
		}
		return s.SetProperty(parentPath, name, v)
	default:
		return fmt.Errorf("line %d: %s: unsupported YAML node", val.Line, name)
	}
}

func nodeType(m *yaml.Node) string {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == TypeKey {
			return m.Content[i+1].Value
		}
	}
	return DefaultNodeType
}

func scalar(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected a scalar")
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int64
		err := n.Decode(&i)
		return i, err
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!timestamp":
		var t time.Time
		err := n.Decode(&t)
		return t, err
	case "!!binary":
		return base64.StdEncoding.DecodeString(n.Value)
	case "!decimal":
		d, _, err := apd.NewFromString(n.Value)
		return d, err
	default:
		return n.Value, nil
	}
}
