package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// IterSeq2Map converts the values of a dual-return iterator.
func IterSeq2Map[K any, V any, W any](seq iter.Seq2[K, V], conv func(V) W) iter.Seq2[K, W] {
	return func(yield func(K, W) bool) {
		for key, value := range seq {
			if !yield(key, conv(value)) {
				return
			}
		}
	}
}

// IterSeqKeyed turns a sequence into a dual-return sequence of name and
// value.
func IterSeqKeyed[T any](seq iter.Seq[T], name func(T) string) iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for value := range seq {
			if !yield(name(value), value) {
				return
			}
		}
	}
}
