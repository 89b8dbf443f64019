package ownkit

// Resource is a value wrapper around a single integer payload. It owns
// nothing itself: copying or moving one is plain value assignment with no
// aliasing hazards. CopyFrom exists to make the in-place form explicit for
// callers that update a resource without reallocating it.
type Resource struct {
	value int
}

// NewResource constructs a Resource holding value. Resources built this way
// are unmanaged; allocate through an Allocator when release accounting
// matters.
func NewResource(value int) *Resource {
	return &Resource{value: value}
}

// Value returns the current payload.
func (r *Resource) Value() int {
	return r.value
}

// SetValue replaces the payload.
func (r *Resource) SetValue(value int) {
	r.value = value
}

// CopyFrom copies other's payload onto r in place. The handle identity of r
// is unchanged. CopyFrom of a resource onto itself is harmless.
func (r *Resource) CopyFrom(other *Resource) {
	r.value = other.value
}

// Allocator is the single-owner allocation contract. Exactly one Free is due
// per successful Alloc; the returned pointer is the owning handle and must be
// released through the same allocator that issued it.
type Allocator interface {
	// Alloc constructs a new Resource holding value. Allocation failure is
	// the only error.
	Alloc(value int) (*Resource, error)

	// Free releases a resource issued by this allocator. Free(nil) is a
	// no-op so callers can release unconditionally.
	Free(res *Resource)
}
