package alloc

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/wippyai/ownkit"
	okerrors "github.com/wippyai/ownkit/errors"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestTracker_AllocFree(t *testing.T) {
	tr := NewTracker()

	res, err := tr.Alloc(101)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if res.Value() != 101 {
		t.Fatalf("Expected value 101, got %d", res.Value())
	}

	if tr.Live() != 1 {
		t.Fatalf("Expected 1 live allocation, got %d", tr.Live())
	}

	tr.Free(res)

	if tr.Live() != 0 {
		t.Fatalf("Expected 0 live allocations, got %d", tr.Live())
	}

	allocs, frees := tr.Stats()
	if allocs != 1 || frees != 1 {
		t.Fatalf("Expected stats 1/1, got %d/%d", allocs, frees)
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestTracker_FreeNil(t *testing.T) {
	tr := NewTracker()

	// Free(nil) is a no-op
	tr.Free(nil)

	allocs, frees := tr.Stats()
	if allocs != 0 || frees != 0 {
		t.Fatalf("Expected stats 0/0, got %d/%d", allocs, frees)
	}
}

func TestTracker_SeqStamping(t *testing.T) {
	tr := NewTracker()

	a, _ := tr.Alloc(1)
	b, _ := tr.Alloc(2)

	seqA, ok := tr.Seq(a)
	if !ok || seqA != 1 {
		t.Fatalf("Expected seq 1 for first allocation, got %d (ok=%v)", seqA, ok)
	}
	seqB, ok := tr.Seq(b)
	if !ok || seqB != 2 {
		t.Fatalf("Expected seq 2 for second allocation, got %d (ok=%v)", seqB, ok)
	}

	// Sequence numbers are never reused
	tr.Free(a)
	c, _ := tr.Alloc(3)
	seqC, ok := tr.Seq(c)
	if !ok || seqC != 3 {
		t.Fatalf("Expected seq 3 after a free, got %d (ok=%v)", seqC, ok)
	}

	// Released resources have no live seq
	if _, ok := tr.Seq(a); ok {
		t.Fatal("Expected no seq for a released resource")
	}
	if _, ok := tr.Seq(nil); ok {
		t.Fatal("Expected no seq for nil")
	}
}

func TestTracker_DoubleReleasePanic(t *testing.T) {
	tr := NewTracker()
	res, _ := tr.Alloc(42)
	tr.Free(res)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic on double release")
		}
		e, ok := r.(*okerrors.Error)
		if !ok {
			t.Fatalf("Expected *okerrors.Error, got %T", r)
		}
		if e.Kind != okerrors.KindDoubleRelease {
			t.Fatalf("Expected kind %q, got %q", okerrors.KindDoubleRelease, e.Kind)
		}
		if e.Seq != 1 {
			t.Fatalf("Expected seq 1 in panic, got %d", e.Seq)
		}
	}()

	tr.Free(res)
}

func TestTracker_ForeignHandlePanic(t *testing.T) {
	tr := NewTracker()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected panic on foreign handle")
		}
		e, ok := r.(*okerrors.Error)
		if !ok {
			t.Fatalf("Expected *okerrors.Error, got %T", r)
		}
		if e.Kind != okerrors.KindForeignHandle {
			t.Fatalf("Expected kind %q, got %q", okerrors.KindForeignHandle, e.Kind)
		}
	}()

	// Not allocated by this tracker
	tr.Free(ownkit.NewResource(7))
}

func TestTracker_FailNext(t *testing.T) {
	tr := NewTracker()
	tr.FailNext(2)

	for i := 0; i < 2; i++ {
		res, err := tr.Alloc(i)
		if err == nil {
			t.Fatalf("Expected injected failure on alloc %d", i)
		}
		if res != nil {
			t.Fatal("Expected nil resource on failure")
		}
		var e *okerrors.Error
		if !errors.As(err, &e) || e.Kind != okerrors.KindAllocation {
			t.Fatalf("Expected allocation kind, got %v", err)
		}
	}

	// Injection exhausted, allocation works again
	res, err := tr.Alloc(3)
	if err != nil {
		t.Fatalf("Alloc failed after injection drained: %v", err)
	}

	allocs, _ := tr.Stats()
	if allocs != 1 {
		t.Fatalf("Failed allocations must not count, got %d", allocs)
	}

	// Failed attempts must not consume sequence numbers
	if seq, _ := tr.Seq(res); seq != 1 {
		t.Fatalf("Expected seq 1, got %d", seq)
	}
}

func TestTracker_MaxLive(t *testing.T) {
	tr := NewTracker()
	tr.SetMaxLive(2)

	a, _ := tr.Alloc(1)
	if _, err := tr.Alloc(2); err != nil {
		t.Fatalf("Alloc under limit failed: %v", err)
	}

	_, err := tr.Alloc(3)
	if err == nil {
		t.Fatal("Expected exhaustion at limit")
	}
	var e *okerrors.Error
	if !errors.As(err, &e) || e.Kind != okerrors.KindExhausted {
		t.Fatalf("Expected exhausted kind, got %v", err)
	}

	// Freeing makes room
	tr.Free(a)
	if _, err := tr.Alloc(3); err != nil {
		t.Fatalf("Alloc after free failed: %v", err)
	}
}

func TestTracker_CloseLeakReport(t *testing.T) {
	tr := NewTracker()

	tr.Alloc(101)
	res, _ := tr.Alloc(202)
	res.SetValue(303)

	err := tr.Close()
	if err == nil {
		t.Fatal("Expected leak error from Close")
	}
	var e *okerrors.Error
	if !errors.As(err, &e) || e.Kind != okerrors.KindLeak {
		t.Fatalf("Expected leak kind, got %v", err)
	}

	// Report carries seq and the current payload of each leaked allocation
	msg := err.Error()
	if !strings.Contains(msg, "2 live allocations") {
		t.Fatalf("Expected leak count in %q", msg)
	}
	if !strings.Contains(msg, "seq=1 value=101") || !strings.Contains(msg, "seq=2 value=303") {
		t.Fatalf("Expected leaked entries in %q", msg)
	}
}

func TestTracker_LeakReportCapped(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 12; i++ {
		tr.Alloc(i)
	}

	err := tr.Close()
	if err == nil {
		t.Fatal("Expected leak error from Close")
	}

	msg := err.Error()
	if !strings.Contains(msg, "12 live allocations") {
		t.Fatalf("Expected full count in %q", msg)
	}
	if got := strings.Count(msg, "seq="); got != 8 {
		t.Fatalf("Expected listing capped at 8 entries, got %d in %q", got, msg)
	}
}

func TestTracker_Closed(t *testing.T) {
	tr := NewTracker()
	res, _ := tr.Alloc(1)

	if err := tr.Close(); err == nil {
		t.Fatal("Expected leak error from Close")
	}

	// Alloc is refused after Close
	if _, err := tr.Alloc(2); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}

	// Release bookkeeping still works so deferred cleanup stays correct
	tr.Free(res)
	if tr.Live() != 0 {
		t.Fatalf("Expected 0 live after post-close free, got %d", tr.Live())
	}

	// Second Close reports nothing
	if err := tr.Close(); err != nil {
		t.Fatalf("Expected idempotent Close, got %v", err)
	}
}

func TestTracker_Observer(t *testing.T) {
	tr := NewTracker()
	obs := &testObserver{}
	tr.Subscribe(obs)

	// Alloc should trigger EventAllocated
	res, _ := tr.Alloc(101)
	if len(obs.events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(obs.events))
	}
	e := obs.events[0]
	if e.Type != EventAllocated {
		t.Fatal("Expected EventAllocated")
	}
	if e.Res != res || e.Seq != 1 || e.Value != 101 {
		t.Fatalf("Wrong event payload: %+v", e)
	}

	// Free should trigger EventReleased with the payload at release time
	res.SetValue(202)
	tr.Free(res)
	if len(obs.events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(obs.events))
	}
	e = obs.events[1]
	if e.Type != EventReleased {
		t.Fatal("Expected EventReleased")
	}
	if e.Seq != 1 || e.Value != 202 {
		t.Fatalf("Wrong event payload: %+v", e)
	}

	// Unsubscribe
	tr.Unsubscribe(obs)
	tr.Alloc(303)
	if len(obs.events) != 2 {
		t.Fatal("Should not receive events after Unsubscribe")
	}
}

func TestTracker_Each(t *testing.T) {
	tr := NewTracker()
	tr.Alloc(10)
	b, _ := tr.Alloc(20)
	tr.Alloc(30)
	tr.Free(b)

	// Iterates live allocations in sequence order
	var seqs []uint64
	var values []int
	tr.Each(func(res *ownkit.Resource, seq uint64) bool {
		seqs = append(seqs, seq)
		values = append(values, res.Value())
		return true
	})

	if len(seqs) != 2 || seqs[0] != 1 || seqs[1] != 3 {
		t.Fatalf("Expected seqs [1 3], got %v", seqs)
	}
	if values[0] != 10 || values[1] != 30 {
		t.Fatalf("Expected values [10 30], got %v", values)
	}

	// Early break
	calls := 0
	tr.Each(func(res *ownkit.Resource, seq uint64) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Fatalf("Expected early break after 1 call, got %d", calls)
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()

	var g errgroup.Group
	g.SetLimit(8)
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				res, err := tr.Alloc(i)
				if err != nil {
					return err
				}
				tr.Free(res)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Concurrent alloc/free failed: %v", err)
	}

	if tr.Live() != 0 {
		t.Fatalf("Expected 0 live, got %d", tr.Live())
	}
	allocs, frees := tr.Stats()
	if allocs != 800 || frees != 800 {
		t.Fatalf("Expected stats 800/800, got %d/%d", allocs, frees)
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}
