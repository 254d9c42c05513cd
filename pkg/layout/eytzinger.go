// Package layout builds cache-oblivious search layouts over sorted id
// arrays. The Eytzinger layout places the implicit binary search tree of a
// sorted array in breadth-first order: the children of the node at index i
// live at 2i and 2i+1, so lookups walk by index arithmetic and touch memory
// far more predictably than classical binary search.
package layout

import (
	"errors"
	"fmt"
	"math/bits"
)

// Sentinel occupies index 0 of every layout. SearchEytzinger returns index 0
// when the needle is smaller than every element.
const Sentinel = int64(-1)

// ErrEmptyHaystack is returned when searching a nil or empty layout.
var ErrEmptyHaystack = errors.New("eytzinger search requires a non-empty layout")

// ErrLengthMismatch is returned when a secondary array does not match the
// primary array's length.
var ErrLengthMismatch = errors.New("primary and secondary arrays must have the same length")

// LayoutAndSecondary pairs an Eytzinger layout with an identically permuted
// secondary array. The secondary array has no sentinel slot: Secondary[i]
// corresponds to Layout[i+1].
type LayoutAndSecondary struct {
	Layout    []int64
	Secondary []int64
}

// ConstructEytzinger builds the Eytzinger layout of a sorted input array.
// The result has length len(input)+1 with the sentinel at index 0. The input
// must already be sorted ascending; the layout of unsorted input is
// unspecified (this is a cache layout for a known sorted array, not a general
// search tree).
func ConstructEytzinger(input []int64) []int64 {
	dest := make([]int64, len(input)+1)
	dest[0] = Sentinel
	eytzinger(len(input), input, dest, nil, nil, 0, 1)
	return dest
}

// ConstructEytzingerRange builds the layout over input[offset : offset+length].
func ConstructEytzingerRange(input []int64, offset, length int) ([]int64, error) {
	if offset < 0 || length < 0 || offset+length > len(input) {
		return nil, fmt.Errorf(
			"invalid range: offset %d length %d, valid range is [0, %d]",
			offset, length, len(input),
		)
	}
	dest := make([]int64, length+1)
	dest[0] = Sentinel
	eytzinger(length, input[offset:offset+length], dest, nil, nil, 0, 1)
	return dest, nil
}

// ConstructEytzingerWithSecondary builds the layout over primary while
// permuting secondary identically, so Secondary[i] stays attached to the
// primary value now stored at Layout[i+1].
func ConstructEytzingerWithSecondary(primary, secondary []int64) (LayoutAndSecondary, error) {
	if len(primary) != len(secondary) {
		return LayoutAndSecondary{}, fmt.Errorf(
			"%w: primary %d, secondary %d",
			ErrLengthMismatch, len(primary), len(secondary),
		)
	}
	dest := make([]int64, len(primary)+1)
	dest[0] = Sentinel
	secondaryDest := make([]int64, len(secondary))
	eytzinger(len(primary), primary, dest, secondary, secondaryDest, 0, 1)
	return LayoutAndSecondary{Layout: dest, Secondary: secondaryDest}, nil
}

// eytzinger fills dest by in-order traversal of the implicit tree: recursing
// into the left subtree first consumes the smaller half of source, so the
// node at destIndex always receives the median of its subrange.
// secondarySource may be nil. Returns the next source index to consume.
func eytzinger(length int, source, dest, secondarySource, secondaryDest []int64, sourceIndex, destIndex int) int {
	if destIndex <= length {
		sourceIndex = eytzinger(length, source, dest, secondarySource, secondaryDest, sourceIndex, 2*destIndex)
		dest[destIndex] = source[sourceIndex]
		if secondarySource != nil {
			secondaryDest[destIndex-1] = secondarySource[sourceIndex]
		}
		sourceIndex++
		sourceIndex = eytzinger(length, source, dest, secondarySource, secondaryDest, sourceIndex, 2*destIndex+1)
	}
	return sourceIndex
}

// SearchEytzinger returns the index of the greatest element <= needle in a
// layout built by ConstructEytzinger (lower-bound semantics). If the needle
// is smaller than every element the sentinel index 0 is returned. The walk
// goes right while the stored value does not exceed the needle; the final
// index encodes the path taken, and stripping the trailing left-moves plus
// the last right-move backtracks to the answer.
func SearchEytzinger(haystack []int64, needle int64) (int, error) {
	if len(haystack) == 0 {
		return 0, ErrEmptyHaystack
	}
	index := 1
	for index < len(haystack) {
		if haystack[index] <= needle {
			index = 2*index + 1
		} else {
			index = 2 * index
		}
	}
	return index >> (1 + bits.TrailingZeros(uint(index))), nil
}
