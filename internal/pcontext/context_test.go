package pcontext

import (
	"slices"
	"testing"
)

func TestNewSingletonOfRootIsEmpty(t *testing.T) {
	if NewSingleton(nil, EmptyReturnState) != Empty {
		t.Fatalf("expected the shared Empty instance")
	}
	if Empty.Kind() != KindEmpty || !Empty.IsEmpty() || !Empty.HasEmptyPath() {
		t.Fatalf("Empty misreports its shape")
	}
}

func TestNewArraySortsPairs(t *testing.T) {
	p1 := NewSingleton(Empty, 1)
	p2 := NewSingleton(Empty, 2)
	a := NewArray([]*Context{p2, p1}, []int{20, 10})
	if got := a.ReturnStates(); !slices.Equal(got, []int{10, 20}) {
		t.Fatalf("return states = %v", got)
	}
	if a.Parent(0) != p1 || a.Parent(1) != p2 {
		t.Fatalf("parents must move with their return states")
	}
	if one := NewArray([]*Context{p1}, []int{3}); one.Kind() != KindSingleton {
		t.Fatalf("single pair must be a singleton, got %v", one.Kind())
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := FromFollowStates(1, 2)
	b := FromFollowStates(1, 2)
	c := FromFollowStates(2, 1)
	if !Equal(a, b) || a.Hash() != b.Hash() {
		t.Fatalf("equal stacks must compare and hash equal")
	}
	if Equal(a, c) {
		t.Fatalf("different stacks must differ")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Fatalf("nil handling is wrong")
	}
}

func TestStacksAndDepth(t *testing.T) {
	ctx := Merge(FromFollowStates(1, 2), FromFollowStates(3), false)
	got := ctx.Stacks()
	want := [][]int{{2, 1}, {3}}
	if len(got) != len(want) {
		t.Fatalf("stacks = %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Fatalf("stacks = %v, want %v", got, want)
		}
	}
	if ctx.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", ctx.Depth())
	}
}
