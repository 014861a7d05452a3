package server

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDirectionBufferScenario(t *testing.T) {
	b := NewDirectionBuffer(4)
	current := DirRight

	steps := []struct {
		req  Direction
		want Verdict
		buf  []Direction
	}{
		{DirUp, Accepted, []Direction{DirUp}},
		{DirUp, RejectedDuplicate, []Direction{DirUp}},
		{DirLeft, Accepted, []Direction{DirUp, DirLeft}},
		{DirRight, RejectedReversal, []Direction{DirUp, DirLeft}},
		{DirDown, Accepted, []Direction{DirUp, DirLeft, DirDown}},
		{DirRight, Accepted, []Direction{DirUp, DirLeft, DirDown, DirRight}},
		{DirUp, RejectedFull, []Direction{DirUp, DirLeft, DirDown, DirRight}},
	}
	for i, s := range steps {
		if got := b.Admit(s.req, current); got != s.want {
			t.Fatalf("step %d: Admit(%v) = %v, want %v", i, s.req, got, s.want)
		}
		if diff := cmp.Diff(s.buf, b.Entries()); diff != "" {
			t.Fatalf("step %d: entries mismatch (-want +got):\n%s", i, diff)
		}
	}

	var drained []Direction
	for i := 0; i < 4; i++ {
		d, ok := b.Dequeue()
		if !ok {
			t.Fatalf("dequeue %d: expected a direction", i)
		}
		drained = append(drained, d)
	}
	if diff := cmp.Diff([]Direction{DirUp, DirLeft, DirDown, DirRight}, drained); diff != "" {
		t.Fatalf("drain order mismatch (-want +got):\n%s", diff)
	}
	if _, ok := b.Dequeue(); ok {
		t.Fatalf("fifth dequeue should report empty")
	}
}

func TestDirectionBufferEmptyChecksCurrentOnlyForReversal(t *testing.T) {
	b := NewDirectionBuffer(4)
	if b.TryEnqueue(DirLeft, DirRight) {
		t.Fatalf("reversal of current heading must be rejected")
	}
	// 与当前朝向相同不算重复
	if !b.TryEnqueue(DirRight, DirRight) {
		t.Fatalf("same as current heading should be accepted on empty buffer")
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", b.Len())
	}
}

func TestDirectionBufferValidatesAgainstLastEntry(t *testing.T) {
	b := NewDirectionBuffer(4)
	b.TryEnqueue(DirUp, DirRight)
	b.TryEnqueue(DirLeft, DirRight)

	if first, _ := b.Peek(); first != DirUp {
		t.Fatalf("Peek = %v, want up", first)
	}
	if last, _ := b.Last(); last != DirLeft {
		t.Fatalf("Last = %v, want left", last)
	}
	// down 与最旧的 up 相反，但只和最后的 left 比较
	if !b.TryEnqueue(DirDown, DirRight) {
		t.Fatalf("down should be validated against last entry (left) and accepted")
	}
}

func TestDirectionBufferRejectionIsIdempotent(t *testing.T) {
	b := NewDirectionBuffer(4)
	b.TryEnqueue(DirUp, DirRight)
	before := b.Entries()
	for i := 0; i < 3; i++ {
		if b.TryEnqueue(DirDown, DirRight) {
			t.Fatalf("reversal accepted on attempt %d", i)
		}
		if b.TryEnqueue(DirUp, DirRight) {
			t.Fatalf("duplicate accepted on attempt %d", i)
		}
		if diff := cmp.Diff(before, b.Entries()); diff != "" {
			t.Fatalf("rejection mutated buffer (-want +got):\n%s", diff)
		}
	}
}

func TestDirectionBufferRejectsInvalid(t *testing.T) {
	b := NewDirectionBuffer(2)
	if got := b.Admit(Direction(0), DirUp); got != RejectedInvalid {
		t.Fatalf("Admit(0) = %v, want invalid", got)
	}
	if got := b.Admit(Direction(9), DirUp); got != RejectedInvalid {
		t.Fatalf("Admit(9) = %v, want invalid", got)
	}
	if b.Len() != 0 {
		t.Fatalf("invalid input mutated buffer")
	}
}

func TestDirectionBufferDefaultCapacity(t *testing.T) {
	for _, c := range []int{0, -3} {
		if got := NewDirectionBuffer(c).Cap(); got != DefaultBufferCapacity {
			t.Fatalf("NewDirectionBuffer(%d).Cap() = %d, want %d", c, got, DefaultBufferCapacity)
		}
	}
}

func TestDirectionBufferWrapsAround(t *testing.T) {
	b := NewDirectionBuffer(3)
	cur := DirRight
	seq := []Direction{DirUp, DirRight, DirDown, DirRight, DirUp, DirLeft, DirDown, DirLeft}
	var accepted, dequeued []Direction
	for _, d := range seq {
		if b.TryEnqueue(d, cur) {
			accepted = append(accepted, d)
		}
		if b.Len() == b.Cap() {
			got, _ := b.Dequeue()
			dequeued = append(dequeued, got)
			cur = got
		}
	}
	for {
		got, ok := b.Dequeue()
		if !ok {
			break
		}
		dequeued = append(dequeued, got)
	}
	if diff := cmp.Diff(accepted, dequeued); diff != "" {
		t.Fatalf("FIFO order broken across wrap (-want +got):\n%s", diff)
	}
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("Clear left %d entries", b.Len())
	}
}

func TestDirectionBufferInvariantsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	all := []Direction{DirUp, DirDown, DirLeft, DirRight}

	for round := 0; round < 200; round++ {
		capacity := 1 + rng.Intn(6)
		b := NewDirectionBuffer(capacity)
		current := all[rng.Intn(len(all))]
		var accepted []Direction

		for i := 0; i < 30; i++ {
			req := all[rng.Intn(len(all))]
			wasEmpty := b.Len() == 0
			if b.TryEnqueue(req, current) {
				accepted = append(accepted, req)
				if wasEmpty && req.IsReversalOf(current) {
					t.Fatalf("round %d: first entry %v reverses current %v", round, req, current)
				}
			}
			if b.Len() > capacity {
				t.Fatalf("round %d: len %d exceeds capacity %d", round, b.Len(), capacity)
			}
			entries := b.Entries()
			for j := 0; j+1 < len(entries); j++ {
				if entries[j].Dot(entries[j+1]) < 0 {
					t.Fatalf("round %d: adjacent reversal %v -> %v", round, entries[j], entries[j+1])
				}
				if entries[j] == entries[j+1] {
					t.Fatalf("round %d: adjacent duplicate %v", round, entries[j])
				}
			}
			// 偶尔消费一个，模拟移动步进
			if rng.Intn(4) == 0 {
				if d, ok := b.Dequeue(); ok {
					if d != accepted[0] {
						t.Fatalf("round %d: dequeued %v, want %v", round, d, accepted[0])
					}
					accepted = accepted[1:]
					current = d
				}
			}
		}
	}
}
