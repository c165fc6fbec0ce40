// Package recordyaml reads entity records from YAML documents.
//
// A document is a sequence of entries, each a mapping with an integer id and
// one record keyed by its type tag:
//
//	# records.yaml
//	- {id: 1, POINT: [1.0, 2.0]}
//	- {id: 2, LINE: ["#1", "#1"]}
//	- id: 3
//	  PART: [{SQUARE: [4.0]}, .T., $, {binary: "0F"}, {string: "#1"}]
//
// Parameters map as follows: floats to Real, integers to Integer, "#N" to a
// reference, ".X." to an enumeration, "$" and null to an omitted value, other
// strings to String, true and false to the enumerations T and F, sequences to
// lists, {binary: hex} to Binary, {string: text} to String without notation,
// and any other single-key mapping to a nested keyed record. An empty mapping
// is a keyed record without an entry.
package recordyaml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacoelho/stepgraph/pkg/record"
)

// Entry is one stored record.
type Entry struct {
	Record *record.Record
	ID     record.EntityID
	Line   int
}

// Load reads the document at name in fsys.
func Load(fsys fs.FS, name string) ([]Entry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("load records %s: nil fs", name)
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load records %s: %w", name, err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load records %s: %w", name, err)
	}
	return entries, nil
}

// Decode reads one document from r. An empty document has no entries.
func Decode(r io.Reader) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.SequenceNode {
		return nil, lineError(root, "document must be a sequence of entries")
	}

	entries := make([]Entry, 0, len(root.Content))
	for _, n := range root.Content {
		e, err := entry(n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entry(n *yaml.Node) (Entry, error) {
	if n.Kind != yaml.MappingNode {
		return Entry{}, lineError(n, "entry must be a mapping")
	}
	e := Entry{Line: n.Line}
	var hasID bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Value == "id" {
			id, err := strconv.ParseUint(value.Value, 10, 64)
			if err != nil || value.Tag != "!!int" {
				return Entry{}, lineError(value, "id must be a non-negative integer, got %q", value.Value)
			}
			e.ID = record.EntityID(id)
			hasID = true
			continue
		}
		if e.Record != nil {
			return Entry{}, lineError(key, "entry holds more than one record")
		}
		params, err := paramList(value)
		if err != nil {
			return Entry{}, err
		}
		e.Record = record.Keyed(key.Value, params...)
	}
	switch {
	case !hasID:
		return Entry{}, lineError(n, "entry has no id")
	case e.Record == nil:
		return Entry{}, lineError(n, "entry #%d has no record", e.ID)
	}
	return e, nil
}

func paramList(n *yaml.Node) ([]record.Value, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, lineError(n, "record parameters must be a sequence")
	}
	params := make([]record.Value, len(n.Content))
	for i, c := range n.Content {
		p, err := Param(c)
		if err != nil {
			return nil, err
		}
		params[i] = p
	}
	return params, nil
}

// Param decodes one parameter node.
func Param(n *yaml.Node) (record.Value, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		items, err := paramList(n)
		if err != nil {
			return nil, err
		}
		return record.List(items), nil
	case yaml.MappingNode:
		return mapping(n)
	case yaml.AliasNode:
		return Param(n.Alias)
	default:
		return nil, lineError(n, "unsupported parameter")
	}
}

func scalar(n *yaml.Node) (record.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return record.Null{}, nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, lineError(n, "integer %q: %v", n.Value, err)
		}
		return record.Integer(v), nil
	case "!!float":
		v, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, lineError(n, "real %q: %v", n.Value, err)
		}
		return record.Real(v), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, lineError(n, "boolean %q: %v", n.Value, err)
		}
		if b {
			return record.Enum("T"), nil
		}
		return record.Enum("F"), nil
	case "!!str":
		return lexical(n)
	default:
		return nil, lineError(n, "unsupported scalar tag %s", n.Tag)
	}
}

// lexical interprets exchange-file notation inside strings.
func lexical(n *yaml.Node) (record.Value, error) {
	s := n.Value
	switch {
	case s == "$":
		return record.Null{}, nil
	case strings.HasPrefix(s, "#"):
		id, err := strconv.ParseUint(s[1:], 10, 64)
		if err != nil {
			return nil, lineError(n, "reference %q: %v", s, err)
		}
		return record.Ref(id), nil
	case len(s) > 2 && strings.HasPrefix(s, ".") && strings.HasSuffix(s, "."):
		return record.Enum(s[1 : len(s)-1]), nil
	default:
		return record.String(s), nil
	}
}

func mapping(n *yaml.Node) (record.Value, error) {
	switch len(n.Content) {
	case 0:
		return record.Empty(), nil
	case 2:
	default:
		return nil, lineError(n, "nested record must have exactly one tag")
	}
	key, value := n.Content[0], n.Content[1]
	switch key.Value {
	case "binary":
		if value.Kind != yaml.ScalarNode {
			return nil, lineError(value, "binary value must be a hex string")
		}
		return record.Binary(value.Value), nil
	case "string":
		if value.Kind != yaml.ScalarNode || value.ShortTag() == "!!null" {
			return nil, lineError(value, "string value must be a scalar")
		}
		return record.String(value.Value), nil
	}
	params, err := paramList(value)
	if err != nil {
		return nil, err
	}
	return record.Keyed(key.Value, params...), nil
}

func lineError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}
