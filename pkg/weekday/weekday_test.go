package weekday

import (
	"reflect"
	"testing"
)

func TestLabels_CanonicalOrder(t *testing.T) {
	want := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if got := Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
}

func TestIsValid(t *testing.T) {
	for _, d := range Labels() {
		if !IsValid(d) {
			t.Errorf("IsValid(%q) = false, want true", d)
		}
	}
	for _, d := range []string{"", "Sunday", "mon", "Xyz"} {
		if IsValid(d) {
			t.Errorf("IsValid(%q) = true, want false", d)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index("Sun"); got != 0 {
		t.Errorf("Index(Sun) = %d, want 0", got)
	}
	if got := Index("Sat"); got != 6 {
		t.Errorf("Index(Sat) = %d, want 6", got)
	}
	if got := Index("nope"); got != -1 {
		t.Errorf("Index(nope) = %d, want -1", got)
	}
}

func TestAllowedIndices(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []int
	}{
		{"empty", nil, []int{}},
		{"single", []string{"Wed"}, []int{3}},
		{"unordered input", []string{"Fri", "Mon", "Wed"}, []int{1, 3, 5}},
		{"duplicates collapse", []string{"Mon", "Mon", "Sun"}, []int{0, 1}},
		{"unknown labels dropped", []string{"Mon", "Funday", ""}, []int{1}},
		{"full week", Labels(), []int{0, 1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedIndices(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AllowedIndices(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllowedIndices_NoDuplicatesCanonicalOrder(t *testing.T) {
	// Exhaustive over all 128 subsets of the week.
	labels := Labels()
	for mask := 0; mask < 1<<7; mask++ {
		var in []string
		for i := 0; i < 7; i++ {
			if mask&(1<<i) != 0 {
				in = append(in, labels[i])
			}
		}
		got := AllowedIndices(in)
		seen := map[int]bool{}
		prev := -1
		for _, idx := range got {
			if idx <= prev {
				t.Fatalf("mask %b: indices %v not strictly increasing", mask, got)
			}
			if seen[idx] {
				t.Fatalf("mask %b: duplicate index %d", mask, idx)
			}
			seen[idx] = true
			prev = idx
		}
		if len(got) != len(in) {
			t.Fatalf("mask %b: got %d indices for %d labels", mask, len(got), len(in))
		}
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"Sat", "Mon", "Mon", "bogus"})
	want := []string{"Mon", "Sat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %v, want %v", got, want)
	}
}
