// Package owner implements the single-owner lifecycle over ownkit
// resources.
//
// An Owner exclusively owns zero or one Resource. The package provides the
// full set of ownership operations:
//
//	Clone / CloneFrom - deep copies through the owner's allocator
//	Move / MoveFrom   - ownership transfer, donor handle nilled
//	Swap              - full state exchange, no allocation
//	Close             - exactly-once release, safe to defer
//
// # Usage
//
//	tr := alloc.NewTracker()
//	res, err := tr.Alloc(101)
//	if err != nil {
//	    return err
//	}
//	o := owner.New(tr, 1, "id1", res)
//	defer o.Close()
//
//	clone, err := o.Clone() // independent deep copy
//	if err != nil {
//	    return err
//	}
//	defer clone.Close()
//
//	moved := o.Move() // o keeps id and name, loses the resource
//	defer moved.Close()
//
// Closing every owner on every path is enough: release happens exactly once
// regardless of how owners were copied, moved, or swapped in between, and
// closing a moved-from or resource-less owner is a no-op.
//
// # Failure Safety
//
// The fallible operations, Clone and the allocating arm of CloneFrom,
// allocate before they mutate. When allocation fails the error propagates
// and the receiver is left exactly as it was.
package owner
