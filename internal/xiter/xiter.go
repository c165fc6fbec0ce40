package xiter

import (
	"iter"
)

// Concat2 yields the pairs of each sequence in turn.
func Concat2[K, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for k, v := range seq {
				if !yield(k, v) {
					return
				}
			}
		}
	}
}

// Map2 yields the pairs of seq transformed by fn.
func Map2[K, V, K2, V2 any](seq iter.Seq2[K, V], fn func(K, V) (K2, V2)) iter.Seq2[K2, V2] {
	return func(yield func(K2, V2) bool) {
		for k, v := range seq {
			if !yield(fn(k, v)) {
				return
			}
		}
	}
}
