package spt

import (
	"math"
	"testing"
)

func TestMinHeapOrdersByKey(t *testing.T) {
	var h MinHeap
	h.Push(1, 30)
	h.Push(2, 10)
	h.Push(3, 20)

	want := []uint32{2, 3, 1}
	for _, w := range want {
		if h.Len() == 0 {
			t.Fatalf("heap emptied early, want node %d next", w)
		}
		item := h.Pop()
		if item.Node != w {
			t.Errorf("Pop() = node %d, want %d", item.Node, w)
		}
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
}

func TestMinHeapPeekKeyEmptyIsInf(t *testing.T) {
	var h MinHeap
	if !math.IsInf(h.PeekKey(), 1) {
		t.Errorf("PeekKey() on empty heap = %v, want +Inf", h.PeekKey())
	}
}

func TestMinHeapReset(t *testing.T) {
	var h MinHeap
	h.Push(1, 5)
	h.Reset()
	if h.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", h.Len())
	}
	h.Push(2, 1)
	if h.Pop().Node != 2 {
		t.Errorf("heap not usable after Reset")
	}
}
