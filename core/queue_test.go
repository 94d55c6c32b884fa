package core

import (
	"testing"
)

// TestWorkQueue_FIFOOrder verifies first-in first-out ordering
// Given: A work queue with several items
// When: Items are popped from the queue
// Then: Items come back in insertion order
func TestWorkQueue_FIFOOrder(t *testing.T) {
	// Arrange
	q := NewWorkQueue()
	var order []int
	makeItem := func(n int) WorkItem {
		return WorkFunc(func() {
			order = append(order, n)
		})
	}

	// Act
	for i := 0; i < 5; i++ {
		q.Push(makeItem(i))
	}

	// Assert
	for i := 0; i < 5; i++ {
		item, ok := q.Pop()
		if !ok {
			t.Fatalf("Step %d: queue is empty, want item", i)
		}
		item.Run()
		if order[len(order)-1] != i {
			t.Errorf("Step %d: ran item %d, want %d", i, order[len(order)-1], i)
		}
	}

	if _, ok := q.Pop(); ok {
		t.Error("queue should be empty after popping all items")
	}
}

// TestWorkQueue_LenAndClear verifies Len, IsEmpty and Clear behavior
func TestWorkQueue_LenAndClear(t *testing.T) {
	q := NewWorkQueue()
	noop := WorkFunc(func() {})

	if !q.IsEmpty() {
		t.Error("new queue should be empty")
	}

	q.Push(noop)
	q.Push(noop)

	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	q.Clear()

	if q.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", q.Len())
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop after Clear should report empty")
	}
}

// TestWorkQueue_CompactionKeepsItems verifies that compaction never loses or
// reorders queued items
func TestWorkQueue_CompactionKeepsItems(t *testing.T) {
	q := NewWorkQueue()
	var order []int
	makeItem := func(n int) WorkItem {
		return WorkFunc(func() {
			order = append(order, n)
		})
	}

	// Grow past compactMinCap, then drain most of it to trigger shrinking.
	total := compactMinCap * 2
	for i := 0; i < total; i++ {
		q.Push(makeItem(i))
	}
	for i := 0; i < total-4; i++ {
		item, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: queue unexpectedly empty", i)
		}
		item.Run()
	}
	q.MaybeCompact()

	if q.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", q.Len())
	}
	for i := total - 4; i < total; i++ {
		item, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop: queue unexpectedly empty, want item %d", i)
		}
		item.Run()
		if got := order[len(order)-1]; got != i {
			t.Errorf("ran item %d, want %d", got, i)
		}
	}
}
