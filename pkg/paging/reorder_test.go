package paging

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func allNodes(int) bool { return true }

func TestOrdering_FirstTouchOrder(t *testing.T) {
	// page size 8 (shift 3); offsets touch pages 2, 0, 3, 1 in run order
	offsets := []int64{16, 18, 22, 0, 3, 6, 24, 28, 30, 8, 13, 15}

	ordering := Ordering(offsets, allNodes, 4, 3)

	wantDistinct := []int{2, 0, 3, 1}
	for i, want := range wantDistinct {
		if ordering.DistinctOrdering[i] != want {
			t.Errorf("DistinctOrdering[%d] = %d, want %d", i, ordering.DistinctOrdering[i], want)
		}
	}
	wantReverse := []int{1, 3, 0, 2}
	for i, want := range wantReverse {
		if ordering.ReverseOrdering[i] != want {
			t.Errorf("ReverseOrdering[%d] = %d, want %d", i, ordering.ReverseOrdering[i], want)
		}
	}
	wantOffsets := []int64{0, 3, 6, 9, 12}
	if len(ordering.PageOffsets) != len(wantOffsets) {
		t.Fatalf("PageOffsets = %v, want %v", ordering.PageOffsets, wantOffsets)
	}
	for i, want := range wantOffsets {
		if ordering.PageOffsets[i] != want {
			t.Errorf("PageOffsets[%d] = %d, want %d", i, ordering.PageOffsets[i], want)
		}
	}
	if ordering.Length != 4 {
		t.Errorf("Length = %d, want 4", ordering.Length)
	}
}

func TestOrdering_RevisitedPageStartsNewRun(t *testing.T) {
	// page 0 appears in two separate runs: the second run adds a boundary but
	// no new distinct entry
	offsets := []int64{0, 8, 1}

	ordering := Ordering(offsets, allNodes, 2, 3)

	if ordering.Length != 2 {
		t.Fatalf("Length = %d, want 2", ordering.Length)
	}
	wantOffsets := []int64{0, 1, 2, 3}
	for i, want := range wantOffsets {
		if ordering.PageOffsets[i] != want {
			t.Errorf("PageOffsets[%d] = %d, want %d", i, ordering.PageOffsets[i], want)
		}
	}
}

func TestReorderPages_CyclePermutation(t *testing.T) {
	pages := [][]byte{[]byte("red"), []byte("green"), []byte("blue"), []byte("silver")}
	ordering := PageOrdering{
		DistinctOrdering: []int{2, 0, 3, 1},
		Length:           4,
	}

	ReorderPages(pages, ordering)

	want := []string{"blue", "red", "silver", "green"}
	for i, w := range want {
		if string(pages[i]) != w {
			t.Errorf("pages[%d] = %s, want %s", i, pages[i], w)
		}
	}
}

func TestReorderPages_IdentityIsNoOp(t *testing.T) {
	pages := [][]byte{[]byte("a"), []byte("b")}
	ordering := PageOrdering{DistinctOrdering: []int{0, 1}, Length: 2}

	swaps := ReorderPages(pages, ordering)

	if len(swaps) != 0 {
		t.Errorf("identity permutation produced %d swaps, want 0", len(swaps))
	}
	if string(pages[0]) != "a" || string(pages[1]) != "b" {
		t.Errorf("pages moved under identity permutation: %v", pages)
	}
}

func TestReorder_EndToEnd(t *testing.T) {
	pages := [][]byte{[]byte("page0---"), []byte("page1---"), []byte("page2---"), []byte("page3---")}
	offsets := []int64{16, 18, 22, 0, 3, 6, 24, 28, 30, 8, 13, 15}
	degrees := []int{2, 4, 2, 3, 3, 2, 4, 2, 1, 5, 2, 1}

	Reorder(pages, offsets, degrees)

	// pages in first-touch order
	wantPages := []string{"page2---", "page0---", "page3---", "page1---"}
	for i, w := range wantPages {
		if string(pages[i]) != w {
			t.Errorf("pages[%d] = %s, want %s", i, pages[i], w)
		}
	}
	// offsets relocated, within-page remainders preserved
	wantOffsets := []int64{0, 2, 6, 8, 11, 14, 16, 20, 22, 24, 29, 31}
	for i, w := range wantOffsets {
		if offsets[i] != w {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], w)
		}
	}
}

func TestReorder_ZeroDegreeOffsetsRewrittenToZero(t *testing.T) {
	pages := [][]byte{make([]byte, 4), make([]byte, 4)}
	offsets := []int64{4, 99, 0}
	degrees := []int{1, 0, 2}

	Reorder(pages, offsets, degrees)

	if offsets[1] != 0 {
		t.Errorf("zero-degree offset = %d, want 0", offsets[1])
	}
}

func TestReorder_NoPages(t *testing.T) {
	Reorder([][]byte{}, nil, nil)
}

func TestReorder_PageTouchedOnlyByZeroDegreeNodes(t *testing.T) {
	// page 0 is referenced only by a zero-degree node, so first-touch order
	// starts at page 1 and page 0 takes the trailing slot
	pages := [][]int64{{1, 2, 3, 4}, {5, 6, 7, 8}}
	offsets := []int64{0, 4, 5}
	degrees := []int{0, 1, 1}

	Reorder(pages, offsets, degrees)

	wantPages := [][]int64{{5, 6, 7, 8}, {1, 2, 3, 4}}
	for i, w := range wantPages {
		if !reflect.DeepEqual(pages[i], w) {
			t.Errorf("pages[%d] = %v, want %v", i, pages[i], w)
		}
	}
	wantOffsets := []int64{0, 0, 1}
	for i, w := range wantOffsets {
		if offsets[i] != w {
			t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], w)
		}
	}
}

func TestOrdering_UntouchedPagesFillTrailingSlots(t *testing.T) {
	// three pages, only page 2 touched
	offsets := []int64{0, 1, 8, 9}
	keep := func(node int) bool { return node >= 2 }

	ordering := Ordering(offsets, keep, 3, 2)

	if ordering.Length != 1 {
		t.Fatalf("Length = %d, want 1", ordering.Length)
	}
	wantDistinct := []int{2, 0, 1}
	if !reflect.DeepEqual(ordering.DistinctOrdering, wantDistinct) {
		t.Errorf("DistinctOrdering = %v, want %v", ordering.DistinctOrdering, wantDistinct)
	}
	wantReverse := []int{1, 2, 0}
	if !reflect.DeepEqual(ordering.ReverseOrdering, wantReverse) {
		t.Errorf("ReverseOrdering = %v, want %v", ordering.ReverseOrdering, wantReverse)
	}
}

// TestReorder_Properties checks arbitrary page-grouped offset sequences:
// ReverseOrdering is a bijection, and after the full pass every offset points
// at the same byte it pointed at before.
func TestReorder_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	const pageShift = 2
	const pageSize = 1 << pageShift

	// a permutation of page indexes plus per-page entry counts gives a valid
	// page-grouped offset sequence
	offsetsGen := gen.IntRange(1, 6).FlatMap(func(v interface{}) gopter.Gen {
		pageCount := v.(int)
		return gen.SliceOfN(pageCount, gen.IntRange(1, pageSize)).Map(func(counts []int) []int64 {
			var offsets []int64
			for page := pageCount - 1; page >= 0; page-- {
				for i := 0; i < counts[page]; i++ {
					offsets = append(offsets, int64(page)<<pageShift|int64(i))
				}
			}
			return offsets
		})
	}, reflect.TypeOf([]int64(nil)))

	properties.Property("offsets resolve to the same bytes after reorder", prop.ForAll(
		func(offsets []int64) bool {
			pageCount := 0
			for _, off := range offsets {
				if p := int(off >> pageShift); p >= pageCount {
					pageCount = p + 1
				}
			}
			pages := make([][]byte, pageCount)
			for i := range pages {
				pages[i] = make([]byte, pageSize)
				for j := range pages[i] {
					pages[i][j] = byte(i*pageSize + j)
				}
			}
			degrees := make([]int, len(offsets))
			before := make([]byte, len(offsets))
			for i, off := range offsets {
				degrees[i] = 1
				before[i] = pages[off>>pageShift][off&(pageSize-1)]
			}

			Reorder(pages, offsets, degrees)

			for i, off := range offsets {
				if pages[off>>pageShift][off&(pageSize-1)] != before[i] {
					return false
				}
			}
			return true
		},
		offsetsGen,
	))

	// the same sequences with a per-node keep mask, so whole pages can end up
	// referenced only by dropped nodes
	type reorderCase struct {
		offsets []int64
		keep    []bool
	}
	caseGen := offsetsGen.FlatMap(func(v interface{}) gopter.Gen {
		offsets := v.([]int64)
		return gen.SliceOfN(len(offsets), gen.Bool()).Map(func(keep []bool) reorderCase {
			return reorderCase{offsets: append([]int64(nil), offsets...), keep: keep}
		})
	}, reflect.TypeOf(reorderCase{}))

	properties.Property("dropped nodes never disturb surviving offsets", prop.ForAll(
		func(tc reorderCase) bool {
			pageCount := 0
			for _, off := range tc.offsets {
				if p := int(off >> pageShift); p >= pageCount {
					pageCount = p + 1
				}
			}
			pages := make([][]byte, pageCount)
			for i := range pages {
				pages[i] = make([]byte, pageSize)
				for j := range pages[i] {
					pages[i][j] = byte(i*pageSize + j)
				}
			}
			degrees := make([]int, len(tc.offsets))
			before := make([]byte, len(tc.offsets))
			for i, off := range tc.offsets {
				if tc.keep[i] {
					degrees[i] = 1
					before[i] = pages[off>>pageShift][off&(pageSize-1)]
				}
			}

			Reorder(pages, tc.offsets, degrees)

			for i, off := range tc.offsets {
				if !tc.keep[i] {
					if off != 0 {
						return false
					}
					continue
				}
				if pages[off>>pageShift][off&(pageSize-1)] != before[i] {
					return false
				}
			}
			return true
		},
		caseGen,
	))

	properties.Property("reverse ordering is a bijection", prop.ForAll(
		func(offsets []int64) bool {
			pageCount := 0
			for _, off := range offsets {
				if p := int(off >> pageShift); p >= pageCount {
					pageCount = p + 1
				}
			}
			ordering := Ordering(offsets, allNodes, pageCount, pageShift)
			if ordering.Length != pageCount {
				return false
			}
			hit := make([]bool, pageCount)
			for _, slot := range ordering.ReverseOrdering {
				if slot < 0 || slot >= pageCount || hit[slot] {
					return false
				}
				hit[slot] = true
			}
			return true
		},
		offsetsGen,
	))

	properties.TestingRun(t)
}
