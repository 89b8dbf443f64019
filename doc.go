// Package ownkit implements the single-owner resource lifecycle contract:
// a value type that exclusively owns a heap resource and supports deep copy,
// transfer of ownership, self-assignment-safe copy assignment, and a
// non-allocating swap primitive, without ever leaking or double-releasing
// the resource it owns.
//
// # Architecture Overview
//
// The library is organized into small packages with distinct responsibilities:
//
//	ownkit/          Root package with the Resource and Allocator contracts
//	├── owner/       Owner lifecycle: construct, clone, move, swap, release
//	├── alloc/       Allocator implementations: GC-backed Heap, instrumented
//	│                Tracker with lifecycle events, logging, and journaling
//	├── errors/      Structured error types for lifecycle diagnostics
//	├── cmd/owndemo/ Demonstration driver and interactive inspector
//	└── examples/    Minimal usage examples
//
// # Quick Start
//
// Allocate a resource, hand it to an owner, and let defer release it:
//
//	tr := alloc.NewTracker()
//
//	res, err := tr.Alloc(101)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	o := owner.New(tr, 1, "id1", res)
//	defer o.Close()
//
//	c, err := o.Clone() // deep copy: independent resource
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	moved := o.Move() // o keeps no resource; its deferred Close stays safe
//	defer moved.Close()
//
// # Ownership Model
//
// Exactly one live handle references any given resource at all times. Copies
// are deep: after Clone or CloneFrom, the two owners share no mutable state.
// Moves transfer the release responsibility: the donor ends resource-less but
// remains valid (destructible, assignable, copyable). Release happens exactly
// once per allocation, at Close or earlier through an assignment that drops
// the previous resource.
//
// # Instrumentation
//
// Resources are not garbage-collection-tracked by the contract: the Tracker
// allocator counts live allocations, panics on double release or on handles
// it never issued, and audits for leaks on Close. Lifecycle observers can
// subscribe for allocated/released events, log them through zap, or persist
// them as a msgpack journal for post-mortem analysis.
//
// # Failure Model
//
// Allocation failure is the only failure mode, and only deep-copying
// operations allocate. Every fallible operation keeps the strong guarantee:
// it either fully succeeds or leaves the receiver untouched. Misuse, such as
// releasing a resource twice or releasing through the wrong allocator, is a
// contract violation and panics with a structured error.
//
// # Thread Safety
//
// Owner is a value-semantics type and is NOT safe for concurrent use; it is
// meant to be driven by a single goroutine. Allocators are safe for
// concurrent use so instrumentation can be consulted from anywhere.
package ownkit
