package stepgraph

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/schemayaml"
	"github.com/jacoelho/stepgraph/pkg/recordyaml"
)

// LoadSchema loads and compiles a YAML schema document from fsys.
func LoadSchema(fsys fs.FS, location string) (*Schema, error) {
	if fsys == nil {
		return nil, fmt.Errorf("load schema %s: nil fs", location)
	}
	data, err := fs.ReadFile(fsys, location)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", location, err)
	}
	def, err := schemayaml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", location, err)
	}
	s, err := newSchema(def, nil)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", location, err)
	}
	return s, nil
}

// LoadSchemaFile loads and compiles a YAML schema document from a file path.
func LoadSchemaFile(path string) (*Schema, error) {
	return LoadSchema(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// LoadTable reads a YAML record document from fsys into a new table.
// Every record is decoded; all failures are reported together.
func LoadTable(s *Schema, fsys fs.FS, location string, opts TableOptions) (*Table, error) {
	entries, err := recordyaml.Load(fsys, location)
	if err != nil {
		return nil, err
	}
	b, err := s.NewTableBuilder(opts)
	if err != nil {
		return nil, fmt.Errorf("load records %s: %w", location, err)
	}
	var errs []error
	for _, e := range entries {
		if err := b.Insert(e.ID, e.Record); err != nil {
			errs = append(errs, fmt.Errorf("%s:%d: %w", location, e.Line, err))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("load records %s: %w", location, steperrors.List(errs))
	}
	return b.Build(), nil
}

// LoadTableFile reads a YAML record document from a file path into a new table.
func LoadTableFile(s *Schema, path string, opts TableOptions) (*Table, error) {
	return LoadTable(s, os.DirFS(filepath.Dir(path)), filepath.Base(path), opts)
}
