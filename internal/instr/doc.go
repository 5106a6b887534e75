// Package instr defines the closed set of template instruction types used by
// the placeholder protocol.
// Invariants:
//   - Type characters form the contiguous range FirstChar..LastChar, so a
//     placeholder type can be matched with one character class.
//   - Only Partial, Conditional and Repeatable (with their continuations and
//     ends) change indentation; Freeform pairs only toggle passthrough.
package instr
