package owner

import (
	"testing"

	"github.com/wippyai/ownkit/alloc"
)

// TestOwner_ReferenceScenario walks the canonical ownership sequence end to
// end: construct, clone, copy-assign onto an owning receiver, move-construct,
// move-assign onto a moved-from receiver, close everything, audit.
func TestOwner_ReferenceScenario(t *testing.T) {
	tr := alloc.NewTracker()

	// owner1 adopts a fresh resource holding 101
	owner1 := New(tr, 1, "id1", mustAlloc(t, tr, 101))
	h1 := owner1.Resource()
	if v, _ := owner1.Value(); v != 101 {
		t.Fatalf("owner1: expected 101, got %d", v)
	}

	// owner2 is a deep copy with its own resource
	owner2, err := owner1.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	h2 := owner2.Resource()
	if h2 == h1 {
		t.Fatal("owner2: expected a distinct handle")
	}
	if owner2.ID() != 1 || owner2.Name() != "id1" {
		t.Fatalf("owner2: expected id=1 name=%q, got id=%d name=%q", "id1", owner2.ID(), owner2.Name())
	}
	if v, _ := owner2.Value(); v != 101 {
		t.Fatalf("owner2: expected 101, got %d", v)
	}

	// Copy assignment with both sides owning copies in place:
	// owner2 keeps its handle and takes the new payload
	owner1.Resource().SetValue(202)
	if err := owner2.CloneFrom(owner1); err != nil {
		t.Fatalf("CloneFrom failed: %v", err)
	}
	if owner2.Resource() != h2 {
		t.Fatal("owner2: expected handle identity preserved by copy assignment")
	}
	if v, _ := owner2.Value(); v != 202 {
		t.Fatalf("owner2: expected 202, got %d", v)
	}

	// Move construction: owner3 takes owner1's handle, owner1 is left
	// resource-less
	owner1.Resource().SetValue(303)
	owner3 := owner1.Move()
	if owner3.Resource() != h1 {
		t.Fatal("owner3: expected owner1's handle")
	}
	if v, _ := owner3.Value(); v != 303 {
		t.Fatalf("owner3: expected 303, got %d", v)
	}
	if owner3.ID() != 1 || owner3.Name() != "id1" {
		t.Fatalf("owner3: expected id=1 name=%q, got id=%d name=%q", "id1", owner3.ID(), owner3.Name())
	}
	if owner1.Resource() != nil {
		t.Fatal("owner1: expected nil handle after move")
	}

	// Move assignment onto the moved-from owner1: takes owner2's handle
	owner2.Resource().SetValue(404)
	owner1.MoveFrom(owner2)
	if owner1.Resource() != h2 {
		t.Fatal("owner1: expected owner2's handle")
	}
	if v, _ := owner1.Value(); v != 404 {
		t.Fatalf("owner1: expected 404, got %d", v)
	}
	if owner2.Resource() != nil {
		t.Fatal("owner2: expected nil handle after move")
	}

	// Exactly two allocations happened across the whole sequence
	allocs, _ := tr.Stats()
	if allocs != 2 {
		t.Fatalf("Expected 2 allocations total, got %d", allocs)
	}

	// Every owner closes cleanly, each resource released exactly once
	for _, o := range []*Owner{owner1, owner2, owner3} {
		if err := o.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}
	_, frees := tr.Stats()
	if frees != 2 {
		t.Fatalf("Expected 2 releases total, got %d", frees)
	}

	audit(t, tr)
}
