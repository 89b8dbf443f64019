package alloc

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/wippyai/ownkit"
	"github.com/wippyai/ownkit/errors"
)

// ErrClosed is returned by Alloc after the tracker has been closed.
var ErrClosed = &errors.Error{
	Phase:  errors.PhaseTrack,
	Kind:   errors.KindClosed,
	Detail: "tracker closed",
}

// Tracker is an instrumented allocator. Every allocation is stamped with a
// sequence number (monotonic, starting at 1, never reused) and recorded in a
// live set; every release is checked against that set. Releasing a resource
// twice or releasing a resource the tracker never issued panics with a
// structured error, since both are contract violations rather than
// recoverable states.
//
// Close audits the live set and reports leaks. Release bookkeeping keeps
// working after Close so deferred cleanup remains correct in any order; only
// new allocations are refused.
type Tracker struct {
	live     map[*ownkit.Resource]uint64
	released map[*ownkit.Resource]uint64
	nextSeq  uint64
	allocs   uint64
	frees    uint64
	failNext int
	maxLive  int
	mu       sync.RWMutex
	closed   bool

	observers []Observer
	obsMu     sync.RWMutex
}

var _ ownkit.Allocator = (*Tracker)(nil)

// NewTracker creates a new tracker with no live allocations.
func NewTracker() *Tracker {
	return &Tracker{
		live:     make(map[*ownkit.Resource]uint64, 16),
		released: make(map[*ownkit.Resource]uint64, 16),
	}
}

// Alloc returns a fresh Resource holding value, stamped with the next
// sequence number.
func (t *Tracker) Alloc(value int) (*ownkit.Resource, error) {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return nil, ErrClosed
	}

	if t.failNext > 0 {
		t.failNext--
		t.mu.Unlock()
		return nil, errors.New(errors.PhaseTrack, errors.KindAllocation).
			Value(value).
			Detail("injected allocation failure").
			Build()
	}

	if t.maxLive > 0 && len(t.live) >= t.maxLive {
		live, limit := len(t.live), t.maxLive
		t.mu.Unlock()
		return nil, errors.Exhausted(live, limit)
	}

	t.nextSeq++
	seq := t.nextSeq
	res := ownkit.NewResource(value)
	t.live[res] = seq
	t.allocs++
	live := len(t.live)
	t.mu.Unlock()

	debugf("alloc seq=%d value=%d live=%d", seq, value, live)
	t.notify(Event{
		Type:  EventAllocated,
		Res:   res,
		Seq:   seq,
		Value: value,
	})

	return res, nil
}

// Free releases res. Free(nil) is a no-op. Panics on a second release of the
// same resource and on a resource this tracker did not allocate.
func (t *Tracker) Free(res *ownkit.Resource) {
	if res == nil {
		return
	}

	t.mu.Lock()

	seq, ok := t.live[res]
	if !ok {
		if past, was := t.released[res]; was {
			t.mu.Unlock()
			panic(errors.DoubleRelease(past))
		}
		t.mu.Unlock()
		panic(errors.ForeignHandle())
	}

	delete(t.live, res)
	t.released[res] = seq
	t.frees++
	value := res.Value()
	live := len(t.live)
	t.mu.Unlock()

	debugf("free seq=%d value=%d live=%d", seq, value, live)
	t.notify(Event{
		Type:  EventReleased,
		Res:   res,
		Seq:   seq,
		Value: value,
	})
}

// Live returns the number of live allocations.
func (t *Tracker) Live() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.live)
}

// Stats returns the total allocation and release counts.
func (t *Tracker) Stats() (allocs, frees uint64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.allocs, t.frees
}

// Seq returns the sequence number of a live allocation.
func (t *Tracker) Seq(res *ownkit.Resource) (uint64, bool) {
	if res == nil {
		return 0, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	seq, ok := t.live[res]
	return seq, ok
}

// Each iterates over live allocations in sequence order.
func (t *Tracker) Each(fn func(res *ownkit.Resource, seq uint64) bool) {
	type row struct {
		res *ownkit.Resource
		seq uint64
	}

	t.mu.RLock()
	rows := make([]row, 0, len(t.live))
	for res, seq := range t.live {
		rows = append(rows, row{res, seq})
	}
	t.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	for _, r := range rows {
		if !fn(r.res, r.seq) {
			break
		}
	}
}

// FailNext makes the next n allocations fail.
func (t *Tracker) FailNext(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failNext = n
}

// SetMaxLive caps live allocations at n. Zero means unlimited.
func (t *Tracker) SetMaxLive(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.maxLive = n
}

// Close stops new allocations and audits the live set. Returns a leak error
// when live allocations remain. Idempotent; the audit runs once.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if len(t.live) == 0 {
		return nil
	}

	return errors.LeakDetected(len(t.live), t.leakDetailLocked())
}

// leakDetailLocked summarizes the live set, capped to keep the message
// readable. Caller holds mu.
func (t *Tracker) leakDetailLocked() string {
	type row struct {
		seq   uint64
		value int
	}

	rows := make([]row, 0, len(t.live))
	for res, seq := range t.live {
		rows = append(rows, row{seq, res.Value()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	const maxList = 8
	list := make([]string, 0, maxList)
	for _, r := range rows {
		if len(list) == maxList {
			break
		}
		list = append(list, fmt.Sprintf("seq=%d value=%d", r.seq, r.value))
	}
	return strings.Join(list, ", ")
}

// Subscribe adds an observer for lifecycle events.
func (t *Tracker) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Tracker) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Tracker) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
