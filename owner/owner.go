package owner

import (
	"fmt"

	"github.com/wippyai/ownkit"
	"github.com/wippyai/ownkit/errors"
)

// Owner exclusively owns zero or one Resource, along with an integer id and
// a name. The resource handle is nil when the owner holds nothing, which is
// a fully valid state: a resource-less owner can be closed, assigned to,
// copied, and moved.
//
// Owners are not safe for concurrent use. Every resource an owner acquires
// is released through the allocator it was acquired from, exactly once,
// no matter how the owner is copied, moved, or swapped afterwards.
type Owner struct {
	alloc ownkit.Allocator
	res   *ownkit.Resource
	id    int
	name  string
}

// New creates an owner adopting res, which may be nil. The owner takes
// sole responsibility for releasing res through alloc. New never allocates
// or copies; it panics on a nil allocator.
func New(alloc ownkit.Allocator, id int, name string, res *ownkit.Resource) *Owner {
	if alloc == nil {
		panic("owner: nil allocator")
	}
	return &Owner{
		alloc: alloc,
		res:   res,
		id:    id,
		name:  name,
	}
}

// Close releases the owned resource. Idempotent: the release happens
// exactly once, and closing a resource-less or moved-from owner is a no-op.
// Safe to defer on every path.
func (o *Owner) Close() error {
	if o.res == nil {
		return nil
	}
	o.alloc.Free(o.res)
	o.res = nil
	return nil
}

// Clone returns a deep copy: id and name by value, the resource deep copied
// through the owner's allocator when present. The copies are independent;
// mutating one never affects the other. On allocation failure nothing is
// allocated and nothing is mutated.
func (o *Owner) Clone() (*Owner, error) {
	clone := &Owner{
		alloc: o.alloc,
		id:    o.id,
		name:  o.name,
	}
	if o.res != nil {
		res, err := o.alloc.Alloc(o.res.Value())
		if err != nil {
			return nil, errors.AllocationFailed(errors.PhaseClone, o.res.Value(), err)
		}
		clone.res = res
	}
	return clone, nil
}

// CloneFrom replaces the receiver's state with a deep copy of other.
// Assigning an owner to itself is a no-op.
//
// The resource handle is resolved by ownership state. When both owners hold
// a resource the payload is copied in place and the receiver keeps its
// handle, with no release and no allocation. When only the receiver holds
// one it is released. When only other holds one a deep copy is allocated
// through the receiver's allocator; that allocation happens before any
// mutation, so on failure the receiver is unchanged.
func (o *Owner) CloneFrom(other *Owner) error {
	if o == other {
		return nil
	}

	switch {
	case o.res != nil && other.res != nil:
		o.res.CopyFrom(other.res)
	case o.res != nil:
		o.alloc.Free(o.res)
		o.res = nil
	case other.res != nil:
		res, err := o.alloc.Alloc(other.res.Value())
		if err != nil {
			return errors.AllocationFailed(errors.PhaseAssign, other.res.Value(), err)
		}
		o.res = res
	}

	o.id = other.id
	o.name = other.name
	return nil
}

// Move transfers ownership to a new owner. The new owner takes the id,
// name, allocator, and resource handle; the donor's handle is nilled.
// No resource is allocated, released, or copied.
//
// The donor stays valid afterwards: it can be closed, assigned to, copied,
// and moved. A deferred Close on the donor remains correct after the
// transfer.
func (o *Owner) Move() *Owner {
	moved := &Owner{
		alloc: o.alloc,
		res:   o.res,
		id:    o.id,
		name:  o.name,
	}
	o.res = nil
	return moved
}

// MoveFrom releases the receiver's resource and takes the id, name,
// allocator, and resource handle from other, nilling other's handle.
// Never fails.
//
// There is no self check. Moving an owner onto itself releases its resource
// and leaves it valid but resource-less.
func (o *Owner) MoveFrom(other *Owner) {
	o.alloc.Free(o.res)
	o.id = other.id
	o.name = other.name
	o.alloc = other.alloc
	o.res = other.res
	other.res = nil
}

// Swap exchanges the full state of two owners, resource handles included.
// Never allocates, never fails.
func (o *Owner) Swap(other *Owner) {
	o.id, other.id = other.id, o.id
	o.name, other.name = other.name, o.name
	o.alloc, other.alloc = other.alloc, o.alloc
	o.res, other.res = other.res, o.res
}

// Swap exchanges the full state of a and b.
func Swap(a, b *Owner) {
	a.Swap(b)
}

// ID returns the owner's id.
func (o *Owner) ID() int {
	return o.id
}

// Name returns the owner's name.
func (o *Owner) Name() string {
	return o.name
}

// Resource returns the owned resource for mutation, or nil. Ownership is
// not transferred; callers must not release the returned resource.
func (o *Owner) Resource() *ownkit.Resource {
	return o.res
}

// Value returns the owned resource's payload, or false when the owner
// holds nothing.
func (o *Owner) Value() (int, bool) {
	if o.res == nil {
		return 0, false
	}
	return o.res.Value(), true
}

// String renders the owner's id, quoted name, payload, and handle identity.
func (o *Owner) String() string {
	if o.res == nil {
		return fmt.Sprintf("id=%d, name=%q, resource=<none>", o.id, o.name)
	}
	return fmt.Sprintf("id=%d, name=%q, resource=%d, &resource=%p", o.id, o.name, o.res.Value(), o.res)
}
