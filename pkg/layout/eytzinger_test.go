package layout

import (
	"errors"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestConstructEytzinger_KnownLayout(t *testing.T) {
	input := []int64{10, 20, 30, 40, 50, 60, 70}

	layout := ConstructEytzinger(input)

	want := []int64{Sentinel, 40, 20, 60, 10, 30, 50, 70}
	if len(layout) != len(want) {
		t.Fatalf("layout length = %d, want %d", len(layout), len(want))
	}
	for i, v := range want {
		if layout[i] != v {
			t.Errorf("layout[%d] = %d, want %d", i, layout[i], v)
		}
	}
}

func TestConstructEytzinger_Empty(t *testing.T) {
	layout := ConstructEytzinger(nil)
	if len(layout) != 1 || layout[0] != Sentinel {
		t.Errorf("empty input layout = %v, want just the sentinel", layout)
	}
}

func TestConstructEytzingerRange(t *testing.T) {
	input := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}

	layout, err := ConstructEytzingerRange(input, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// subrange [3,4,5]: median 4 at the root
	want := []int64{Sentinel, 4, 3, 5}
	for i, v := range want {
		if layout[i] != v {
			t.Errorf("layout[%d] = %d, want %d", i, layout[i], v)
		}
	}
}

func TestConstructEytzingerRange_InvalidRange(t *testing.T) {
	input := []int64{1, 2, 3}
	cases := []struct {
		name           string
		offset, length int
	}{
		{"negative offset", -1, 2},
		{"negative length", 0, -1},
		{"past the end", 2, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ConstructEytzingerRange(input, tc.offset, tc.length); err == nil {
				t.Error("expected range error, got nil")
			}
		})
	}
}

func TestConstructEytzingerWithSecondary(t *testing.T) {
	primary := []int64{10, 20, 30, 40, 50, 60, 70}
	secondary := []int64{100, 200, 300, 400, 500, 600, 700}

	result, err := ConstructEytzingerWithSecondary(primary, secondary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Secondary[i] must track Layout[i+1]
	for i, v := range result.Secondary {
		if v != result.Layout[i+1]*10 {
			t.Errorf("Secondary[%d] = %d, detached from Layout[%d] = %d",
				i, v, i+1, result.Layout[i+1])
		}
	}
}

func TestConstructEytzingerWithSecondary_LengthMismatch(t *testing.T) {
	_, err := ConstructEytzingerWithSecondary([]int64{1, 2}, []int64{1})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
}

func TestSearchEytzinger_LowerBound(t *testing.T) {
	layout := ConstructEytzinger([]int64{10, 20, 30, 40, 50, 60, 70})

	cases := []struct {
		needle int64
		want   int64 // value at the returned index, Sentinel for below-range
	}{
		{5, Sentinel},
		{10, 10},
		{15, 10},
		{45, 40},
		{70, 70},
		{100, 70},
	}
	for _, tc := range cases {
		index, err := SearchEytzinger(layout, tc.needle)
		if err != nil {
			t.Fatalf("needle %d: unexpected error: %v", tc.needle, err)
		}
		if layout[index] != tc.want {
			t.Errorf("needle %d: found value %d at index %d, want %d",
				tc.needle, layout[index], index, tc.want)
		}
	}
}

func TestSearchEytzinger_EmptyHaystack(t *testing.T) {
	if _, err := SearchEytzinger(nil, 1); !errors.Is(err, ErrEmptyHaystack) {
		t.Errorf("error = %v, want ErrEmptyHaystack", err)
	}
}

// TestEytzinger_Properties checks the layout against arbitrary sorted inputs:
// the layout is a permutation of the input, and search always returns the
// greatest element not exceeding the needle.
func TestEytzinger_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	sortedGen := gen.SliceOf(gen.Int64Range(0, 1<<40)).Map(func(values []int64) []int64 {
		sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
		return values
	})

	properties.Property("layout is a permutation of the input", prop.ForAll(
		func(values []int64) bool {
			layout := ConstructEytzinger(values)
			if len(layout) != len(values)+1 || layout[0] != Sentinel {
				return false
			}
			counts := make(map[int64]int, len(values))
			for _, v := range values {
				counts[v]++
			}
			for _, v := range layout[1:] {
				counts[v]--
			}
			for _, c := range counts {
				if c != 0 {
					return false
				}
			}
			return true
		},
		sortedGen,
	))

	properties.Property("search finds the lower bound", prop.ForAll(
		func(values []int64, needle int64) bool {
			if len(values) == 0 {
				return true
			}
			layout := ConstructEytzinger(values)
			index, err := SearchEytzinger(layout, needle)
			if err != nil {
				return false
			}

			// expected: greatest value <= needle, Sentinel if none
			expected := Sentinel
			for _, v := range values {
				if v <= needle && v > expected {
					expected = v
				}
			}
			return layout[index] == expected
		},
		sortedGen,
		gen.Int64Range(-10, 1<<40),
	))

	properties.TestingRun(t)
}
