// Package record defines the abstract input unit of the decoder: a type tag plus
// either an ordered parameter sequence or a single keyed entry. Records are
// produced by an interchange-file tokenizer and are immutable once built.
package record
