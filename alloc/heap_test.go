package alloc

import "testing"

func TestHeap_Alloc(t *testing.T) {
	var h Heap

	res, err := h.Alloc(42)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if res.Value() != 42 {
		t.Fatalf("Expected value 42, got %d", res.Value())
	}

	// Free is a no-op either way
	h.Free(res)
	h.Free(nil)
}
