package stepgraph

import (
	"fmt"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/jacoelho/stepgraph/internal/resolve"
)

type intOption struct {
	value int
	set   bool
}

func (o intOption) resolved(fallback int) int {
	if !o.set {
		return fallback
	}
	return o.value
}

// TableOptions configures table population and resolution.
// The zero value is valid; every With method returns a modified copy.
type TableOptions struct {
	logger           *logr.Logger
	maxDepth         intOption
	parallelism      intOption
	skipUnknownTypes bool
}

type resolvedTableOptions struct {
	logger           logr.Logger
	maxDepth         int
	parallelism      int
	skipUnknownTypes bool
}

// NewTableOptions returns a default, valid options value.
func NewTableOptions() TableOptions {
	return TableOptions{}
}

// Validate validates option values.
func (o TableOptions) Validate() error {
	_, err := o.withDefaults()
	return err
}

// WithLogger sets the logger for population and resolution events.
// The default discards everything.
func (o TableOptions) WithLogger(log logr.Logger) TableOptions {
	o.logger = &log
	return o
}

// WithMaxDepth bounds the reference chain followed by one resolution
// (default 1024, 0 disables the bound).
func (o TableOptions) WithMaxDepth(value int) TableOptions {
	o.maxDepth = intOption{value: value, set: true}
	return o
}

// WithParallelism sets the number of workers used by ResolveAll
// (0 uses GOMAXPROCS).
func (o TableOptions) WithParallelism(value int) TableOptions {
	o.parallelism = intOption{value: value, set: true}
	return o
}

// WithSkipUnknownTypes controls whether records whose tag names no entity
// type are dropped instead of failing the insert.
func (o TableOptions) WithSkipUnknownTypes(value bool) TableOptions {
	o.skipUnknownTypes = value
	return o
}

func (o TableOptions) withDefaults() (resolvedTableOptions, error) {
	maxDepth := o.maxDepth.resolved(resolve.DefaultMaxDepth)
	if maxDepth < 0 {
		return resolvedTableOptions{}, fmt.Errorf("max depth must be >= 0")
	}
	parallelism := o.parallelism.resolved(0)
	if parallelism < 0 {
		return resolvedTableOptions{}, fmt.Errorf("parallelism must be >= 0")
	}
	if parallelism == 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	log := logr.Discard()
	if o.logger != nil {
		log = *o.logger
	}
	return resolvedTableOptions{
		logger:           log,
		maxDepth:         maxDepth,
		parallelism:      parallelism,
		skipUnknownTypes: o.skipUnknownTypes,
	}, nil
}
