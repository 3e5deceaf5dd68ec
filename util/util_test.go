package util

import (
	"reflect"
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	p := Ptr(1.5)
	if *p != 1.5 {
		t.Errorf("expected *p=1.5, got %v", *p)
	}
	if Ptr(0.0) == Ptr(0.0) {
		t.Error("expected distinct pointers")
	}
}

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	if !reflect.DeepEqual(got, []int{2, 4, 6}) {
		t.Errorf("unexpected result %v", got)
	}
	if got := Map([]int(nil), func(n int) string { return "" }); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"keeps first occurrence", []string{"product", "family", "product"}, []string{"product", "family"}},
		{"no duplicates", []string{"a", "b"}, []string{"a", "b"}},
		{"empty", nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unique(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Unique(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce("", "mcrl22lps", "other"); got != "mcrl22lps" {
		t.Errorf("expected mcrl22lps, got %q", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Errorf("expected zero, got %d", got)
	}
	if got := Coalesce(time.Duration(0), 5*time.Second); got != 5*time.Second {
		t.Errorf("expected 5s, got %v", got)
	}
}

func TestPresent(t *testing.T) {
	got := Present([]*float64{Ptr(1.5), nil, Ptr(0.0)})
	if !reflect.DeepEqual(got, []float64{1.5, 0}) {
		t.Errorf("unexpected result %v", got)
	}
	if got := Present([]*int{nil}); len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestFlattenSumMax(t *testing.T) {
	calls := Flatten([][]int{{10, 2}, nil, {12}})
	if !reflect.DeepEqual(calls, []int{10, 2, 12}) {
		t.Fatalf("unexpected flatten %v", calls)
	}
	if got := Sum(calls); got != 24 {
		t.Errorf("expected sum 24, got %d", got)
	}
	if got, ok := Max(calls); !ok || got != 12 {
		t.Errorf("expected max 12, got %d (ok=%v)", got, ok)
	}
	if got, ok := Max([]int{-3, -1}); !ok || got != -1 {
		t.Errorf("expected max -1, got %d", got)
	}
	if _, ok := Max([]int(nil)); ok {
		t.Error("max of nothing must not be ok")
	}
}

func TestMean(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{2.5}, 2.5},
		{"several", []float64{1, 2, 6}, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Mean(tc.in); got != tc.want {
				t.Errorf("Mean(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
