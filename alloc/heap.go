package alloc

import "github.com/wippyai/ownkit"

// Heap is the plain allocator. Alloc never fails and Free is a no-op
// beyond dropping the reference; reclamation is left to the garbage
// collector. Use it where the bookkeeping of a Tracker is not wanted.
//
// The zero value is ready to use.
type Heap struct{}

var _ ownkit.Allocator = (*Heap)(nil)

// Alloc returns a fresh Resource holding value.
func (*Heap) Alloc(value int) (*ownkit.Resource, error) {
	return ownkit.NewResource(value), nil
}

// Free releases res. Free(nil) is a no-op.
func (*Heap) Free(res *ownkit.Resource) {}
