// Package tensor parses tensor shapes and nested tensor literals.
//
// Shapes come from free-form text: every run of ASCII digits is one dimension
// size, everything else is ignored, so "B: 10, L: 20", "[4,4,4]" and
// "2x3x5" all parse. Tensor literals are JSON arrays; their shape is inferred
// from the first element at every level and the data is kept as a [Value]
// for per-cell lookups.
//
// # Values
//
// [Value] is a small sum type:
//
//	tensor.Scalar(3.5)                                   // a number
//	tensor.Nested{tensor.Scalar(1), tensor.Scalar(2)}    // an array
//
// JSON leaves that are neither numbers nor arrays decode to a nil Value.
// [Lookup] walks a Value along an index path and reports whether a number
// lives there:
//
//	v, ok := tensor.Lookup(t.Data, []int{1, 0})
//
// # Failure Model
//
// Nothing in this package returns an error. Malformed shape text yields an
// empty shape, malformed tensor text yields ok == false, and lookups that
// hit a missing index or a non-number report ok == false.
package tensor
