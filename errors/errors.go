package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which lifecycle operation the error occurred in
type Phase string

const (
	PhaseClone   Phase = "clone"   // copy construction
	PhaseAssign  Phase = "assign"  // copy assignment
	PhaseMove    Phase = "move"    // ownership transfer
	PhaseRelease Phase = "release" // resource release
	PhaseTrack   Phase = "track"   // allocation tracking
	PhaseJournal Phase = "journal" // event journaling
)

// Kind categorizes the error
type Kind string

const (
	KindAllocation    Kind = "allocation"
	KindExhausted     Kind = "exhausted"
	KindDoubleRelease Kind = "double_release"
	KindForeignHandle Kind = "foreign_handle"
	KindLeak          Kind = "leak"
	KindClosed        Kind = "closed"
	KindEncode        Kind = "encode"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Seq    uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Seq != 0 {
		fmt.Fprintf(&b, " seq=%d", e.Seq)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Seq sets the allocation sequence number
func (b *Builder) Seq(seq uint64) *Builder {
	b.err.Seq = seq
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// AllocationFailed creates an allocation failure error for a deep copy of
// the given payload value
func AllocationFailed(phase Phase, value int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate resource copy holding %d", value),
		Value:  value,
		Cause:  cause,
	}
}

// Exhausted creates a resource exhaustion error
func Exhausted(live, limit int) *Error {
	return &Error{
		Phase:  PhaseTrack,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf("live allocations %d at limit %d", live, limit),
		Value:  live,
	}
}

// DoubleRelease creates a double release error for the allocation with the
// given sequence number
func DoubleRelease(seq uint64) *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindDoubleRelease,
		Seq:    seq,
		Detail: "resource released twice",
	}
}

// ForeignHandle creates an error for a release of a handle this allocator
// never issued
func ForeignHandle() *Error {
	return &Error{
		Phase:  PhaseRelease,
		Kind:   KindForeignHandle,
		Detail: "resource was not allocated by this allocator",
	}
}

// LeakDetected creates a leak audit error
func LeakDetected(count int, detail string) *Error {
	return &Error{
		Phase:  PhaseTrack,
		Kind:   KindLeak,
		Detail: fmt.Sprintf("%d live allocations at close: %s", count, detail),
		Value:  count,
	}
}

// EncodeFailed creates a journal encoding error
func EncodeFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseJournal,
		Kind:   KindEncode,
		Detail: "encode lifecycle event",
		Cause:  cause,
	}
}
