package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacoelho/stepgraph/pkg/owned"
)

// OutputFormat selects how resolved values are written.
type OutputFormat string

const (
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
	OutputStep OutputFormat = "step"
)

// ParseOutputFormat parses the -o flag. The empty string selects YAML.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case "":
		return OutputYAML, nil
	case OutputYAML, OutputJSON, OutputStep:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q, want one of: yaml, json, step", s)
	}
}

// WriteValues writes values in format f. YAML and JSON documents hold a
// single value as is and several values as a list.
func WriteValues(w io.Writer, f OutputFormat, values []owned.Value) error {
	switch f {
	case OutputStep:
		for _, v := range values {
			if _, err := fmt.Fprintln(w, stepLine(v)); err != nil {
				return err
			}
		}
		return nil
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plainDocument(values))
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(plainDocument(values)); err != nil {
			return err
		}
		return enc.Close()
	}
}

func plainDocument(values []owned.Value) any {
	if len(values) == 1 {
		return owned.Plain(values[0])
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = owned.Plain(v)
	}
	return out
}

// stepLine renders v as an exchange-file instance line.
func stepLine(v owned.Value) string {
	if e := owned.Innermost(v); e != nil && e.HasID {
		return fmt.Sprintf("#%d=%s;", e.ID, owned.Format(v))
	}
	return owned.Format(v) + ";"
}
