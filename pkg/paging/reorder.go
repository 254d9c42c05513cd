// Package paging physically reorders the fixed-size pages of a paged array
// so that pages appear in first-touch order, then rewrites every offset that
// references them. Sequential adjacency scans after the pass touch pages in
// ascending order, which is the whole point: the builder writes pages in
// whatever order workers finish, not in node order.
package paging

import (
	"math/bits"
)

// PageOrdering describes the page permutation computed from an offset array.
type PageOrdering struct {
	// DistinctOrdering lists page indexes in first-touch order, followed by
	// pages no filtered-in offset touches, in ascending index order. It is a
	// permutation of [0, pageCount): slot i of the reordered page array
	// receives the page at DistinctOrdering[i].
	DistinctOrdering []int
	// ReverseOrdering maps an old page index to its new slot. It is a
	// bijection on [0, pageCount).
	ReverseOrdering []int
	// PageOffsets holds the boundaries of per-page element runs within the
	// filtered offset sequence, one entry per run plus a final boundary.
	PageOffsets []int64
	// Length is the number of distinct pages touched by filtered-in offsets.
	Length int
}

// Ordering scans offsets, skipping entries rejected by nodeFilter, and
// records each entry's page (offset >> pageShift) in first-occurrence order.
// Offsets are expected to be grouped by page: entries for one page form
// contiguous runs.
func Ordering(offsets []int64, nodeFilter func(node int) bool, pageCount int, pageShift uint) PageOrdering {
	distinct := make([]int, 0, pageCount)
	reverse := make([]int, pageCount)
	seen := make([]bool, pageCount)
	pageOffsets := make([]int64, 0, pageCount+1)

	prevPage := -1
	entryIdx := int64(0)
	for node := range offsets {
		if !nodeFilter(node) {
			continue
		}
		page := int(uint64(offsets[node]) >> pageShift)
		if page != prevPage {
			if !seen[page] {
				seen[page] = true
				reverse[page] = len(distinct)
				distinct = append(distinct, page)
			}
			pageOffsets = append(pageOffsets, entryIdx)
			prevPage = page
		}
		entryIdx++
	}
	pageOffsets = append(pageOffsets, entryIdx)

	// Pages referenced only by filtered-out nodes still occupy the page array.
	// Assign them the trailing slots so the ordering is a full permutation.
	length := len(distinct)
	for page := 0; page < pageCount; page++ {
		if !seen[page] {
			reverse[page] = len(distinct)
			distinct = append(distinct, page)
		}
	}

	return PageOrdering{
		DistinctOrdering: distinct,
		ReverseOrdering:  reverse[:pageCount],
		PageOffsets:      pageOffsets,
		Length:           length,
	}
}

// ReorderPages permutes pages in place so that slot i holds the page that was
// at ordering.DistinctOrdering[i]. Arbitrary permutation cycles are handled,
// not just 2-cycles. Returns the sequence of slot indexes written, in the
// order they were filled.
func ReorderPages[P any](pages []P, ordering PageOrdering) []int {
	perm := make([]int, len(ordering.DistinctOrdering))
	copy(perm, ordering.DistinctOrdering)
	swaps := make([]int, 0, len(perm))

	for start := range perm {
		if perm[start] == start {
			continue
		}
		displaced := pages[start]
		slot := start
		for {
			from := perm[slot]
			perm[slot] = slot
			swaps = append(swaps, slot)
			if from == start {
				pages[slot] = displaced
				break
			}
			pages[slot] = pages[from]
			slot = from
		}
	}
	return swaps
}

// RewriteOffsets relocates every filtered-in offset to its page's new slot,
// preserving the within-page index: the offset becomes
// (newPage << pageShift) | (oldOffset & pageMask). Filtered-out entries are
// rewritten to 0 so zero-degree nodes resolve to the start of the structure.
func RewriteOffsets(offsets []int64, ordering PageOrdering, nodeFilter func(node int) bool, pageShift uint) {
	pageMask := (int64(1) << pageShift) - 1
	for node := range offsets {
		if !nodeFilter(node) {
			offsets[node] = 0
			continue
		}
		offset := offsets[node]
		page := int(uint64(offset) >> pageShift)
		offsets[node] = int64(ordering.ReverseOrdering[page])<<pageShift | (offset & pageMask)
	}
}

// Reorder composes the full pass: build the ordering from offsets and
// degrees (degree > 0 admits a node), reorder the pages, then rewrite the
// offsets. The page size is taken from the first page and must be a power of
// two. Zero pages is a no-op.
func Reorder[P ~[]E, E any](pages []P, offsets []int64, degrees []int) {
	if len(pages) == 0 {
		return
	}
	pageShift := uint(bits.TrailingZeros(uint(len(pages[0]))))
	nodeFilter := func(node int) bool {
		return degrees[node] > 0
	}
	ordering := Ordering(offsets, nodeFilter, len(pages), pageShift)
	ReorderPages(pages, ordering)
	RewriteOffsets(offsets, ordering, nodeFilter, pageShift)
}
