package table

import (
	"fmt"

	"github.com/go-logr/logr"

	steperrors "github.com/jacoelho/stepgraph/errors"
	"github.com/jacoelho/stepgraph/internal/holder"
	"github.com/jacoelho/stepgraph/internal/schema"
	"github.com/jacoelho/stepgraph/pkg/record"
)

// UnknownTypePolicy decides what Insert does with a record whose tag names no
// entity type of the schema.
type UnknownTypePolicy uint8

const (
	// UnknownTypeError fails the insert with ErrUnknownType.
	UnknownTypeError UnknownTypePolicy = iota
	// UnknownTypeSkip logs the record and drops it.
	UnknownTypeSkip
)

// String returns the policy name.
func (p UnknownTypePolicy) String() string {
	switch p {
	case UnknownTypeError:
		return "error"
	case UnknownTypeSkip:
		return "skip"
	default:
		return fmt.Sprintf("UnknownTypePolicy(%d)", uint8(p))
	}
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for skipped records.
func WithLogger(log logr.Logger) Option {
	return func(b *Builder) {
		b.log = log
	}
}

// WithUnknownTypePolicy sets how records of unknown types are handled.
func WithUnknownTypePolicy(p UnknownTypePolicy) Option {
	return func(b *Builder) {
		b.unknownType = p
	}
}

// Builder populates a Table. A Builder is not safe for concurrent use.
type Builder struct {
	table       *Table
	decoder     *holder.Decoder
	log         logr.Logger
	unknownType UnknownTypePolicy
	skipped     int
}

// NewBuilder returns a builder for an empty table of s.
func NewBuilder(s *schema.Schema, opts ...Option) *Builder {
	entities := s.Entities()
	t := &Table{schema: s, slots: make([]slot, len(entities))}
	for i := range t.slots {
		t.slots[i].index = make(map[record.EntityID]int)
	}
	b := &Builder{
		table:   t,
		decoder: holder.NewDecoder(s),
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Insert decodes rec and stores it under id. The keyed record's tag selects
// the entity type.
func (b *Builder) Insert(id record.EntityID, rec *record.Record) error {
	if rec.IsEmpty() {
		return steperrors.EmptyRecord(fmt.Sprintf("entity #%d", id))
	}
	if rec.Form != record.FormKeyed {
		return steperrors.TypeMismatch("keyed record", "untagged record")
	}
	e, ok := b.table.schema.Entity(rec.Tag)
	if !ok {
		if b.unknownType == UnknownTypeSkip {
			b.skipped++
			b.log.V(1).Info("skipping record of unknown type", "type", rec.Tag, "id", uint64(id))
			return nil
		}
		return steperrors.UnknownType(rec.Tag)
	}
	return b.insert(e, id, rec)
}

// InsertAs decodes rec as an instance of typeName and stores it under id.
// rec may be in either form.
func (b *Builder) InsertAs(typeName string, id record.EntityID, rec *record.Record) error {
	e, ok := b.table.schema.Entity(typeName)
	if !ok {
		return steperrors.UnknownType(typeName)
	}
	return b.insert(e, id, rec)
}

func (b *Builder) insert(e *schema.Entity, id record.EntityID, rec *record.Record) error {
	s := &b.table.slots[e.Slot()]
	if _, dup := s.index[id]; dup {
		return steperrors.DuplicateEntity(e.Name(), uint64(id))
	}
	h, err := b.decoder.Entity(e, rec)
	if err != nil {
		return steperrors.At(err, e.Name(), uint64(id))
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	s.holders = append(s.holders, h)
	b.table.size++
	return nil
}

// Skipped returns the number of records dropped under UnknownTypeSkip.
func (b *Builder) Skipped() int {
	return b.skipped
}

// Table returns the populated table. The builder must not be used afterwards.
func (b *Builder) Table() *Table {
	t := b.table
	b.table = nil
	if b.skipped > 0 {
		b.log.Info("skipped records of unknown types", "count", b.skipped)
	}
	return t
}
