// Package errors provides structured error types for the ownkit library.
//
// Errors are categorized by Phase (which lifecycle operation failed) and
// Kind (error category). The Error type carries the allocation sequence
// number and offending value where known, plus a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAssign, errors.KindAllocation).
//		Seq(42).
//		Value(202).
//		Detail("deep copy during assignment").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AllocationFailed(errors.PhaseClone, 101, cause)
//	err := errors.DoubleRelease(42)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
