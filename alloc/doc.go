// Package alloc provides allocator implementations for the ownership
// contract.
//
// Two allocators implement ownkit.Allocator:
//
//	Heap    - plain allocation, reclamation left to the garbage collector
//	Tracker - instrumented allocation with sequence stamping, live-set
//	          accounting, misuse detection, and a leak audit on Close
//
// # Tracker
//
// The Tracker stamps every allocation with a monotonically increasing
// sequence number and keeps the live set:
//
//	tr := alloc.NewTracker()
//
//	// Allocate a resource, stamped with the next sequence number
//	res, err := tr.Alloc(101)
//
//	// Release it exactly once
//	tr.Free(res)
//
//	// Audit: non-nil error when allocations are still live
//	err = tr.Close()
//
// Releasing a resource twice, or releasing a resource the tracker never
// issued, panics with a structured error from the errors package. Both are
// contract violations, not recoverable states.
//
// # Failure Injection
//
// Tests drive the failure paths of owner operations through the tracker:
//
//	tr.FailNext(1)   // next Alloc fails
//	tr.SetMaxLive(4) // Alloc fails while 4 allocations are live
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	tr.Subscribe(observer)
//
//	func (o *myObserver) OnResourceEvent(e alloc.Event) {
//	    switch e.Type {
//	    case alloc.EventAllocated:
//	        log.Printf("seq %d allocated holding %d", e.Seq, e.Value)
//	    case alloc.EventReleased:
//	        log.Printf("seq %d released holding %d", e.Seq, e.Value)
//	    }
//	}
//
// Two observers ship with the package: LogObserver logs events through zap,
// and Journal persists them as msgpack records for post-mortem analysis
// (ReadJournal decodes the stream back).
package alloc
