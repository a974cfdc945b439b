package nagare

import (
	"context"
	"testing"
)

func TestMergeInterleavesAndCompletesWhenAllDone(t *testing.T) {
	ctx := context.Background()
	a := From([]int{1, 2, 3})
	b := From([]int{10, 20})

	got, err := Merge(a, b).ToArray(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d: %v", len(got), got)
	}

	seen := map[int]bool{}
	for _, v := range got {
		seen[v] = true
	}
	for _, want := range []int{1, 2, 3, 10, 20} {
		if !seen[want] {
			t.Errorf("expected %d in merged output, got %v", want, got)
		}
	}
}

func TestMergePreservesPerSourceOrder(t *testing.T) {
	ctx := context.Background()
	a := From([]int{1, 2, 3, 4, 5})
	b := From([]int{100})

	got, err := Merge(a, b).ToArray(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var aSeen []int
	for _, v := range got {
		if v < 100 {
			aSeen = append(aSeen, v)
		}
	}
	for i, v := range aSeen {
		if v != i+1 {
			t.Fatalf("a's relative order broken: %v", aSeen)
		}
	}
}
