package adjacency

import (
	"encoding/binary"
	"math/bits"
)

// List is one node's built adjacency in its final physical encoding. Lists
// are build-once, read-many: they become part of the immutable graph store.
type List interface {
	// NodeID returns the source node this list belongs to.
	NodeID() int64
	// Degree returns the number of stored targets.
	Degree() int
	// Targets returns the decoded target ids in ascending order. The slice
	// is freshly allocated on every call for encoded strategies.
	Targets() []int64
	// Properties returns the per-edge property columns, index-aligned with
	// Targets. Nil when no properties were imported.
	Properties() [][]int64
	// Bytes returns the memory footprint of the encoded targets.
	Bytes() int
	// Strategy returns the encoding actually applied. Lists built by the
	// mixed compressor report the concrete choice, packed or compressed.
	Strategy() Strategy
}

// Contains reports whether target is present in the list, using binary
// search over the decoded targets.
func Contains(list List, target int64) bool {
	targets := list.Targets()
	left, right := 0, len(targets)-1
	for left <= right {
		mid := left + (right-left)/2
		switch {
		case targets[mid] == target:
			return true
		case targets[mid] < target:
			left = mid + 1
		default:
			right = mid - 1
		}
	}
	return false
}

// compressedList stores delta-varint encoded targets: the first target as a
// base value and each following target as the varint of its delta to the
// previous one.
type compressedList struct {
	nodeID     int64
	base       int64
	deltas     []byte
	degree     int
	properties [][]int64
}

func (l *compressedList) NodeID() int64 { return l.nodeID }
func (l *compressedList) Degree() int { return l.degree }
func (l *compressedList) Properties() [][]int64 { return l.properties }
func (l *compressedList) Strategy() Strategy { return StrategyCompressed }

func (l *compressedList) Bytes() int {
	// base (8) + deltas + degree (4)
	return 8 + len(l.deltas) + 4
}

func (l *compressedList) Targets() []int64 {
	if l.degree == 0 {
		return []int64{}
	}
	result := make([]int64, 0, l.degree)
	result = append(result, l.base)
	current := uint64(l.base)
	buf := l.deltas
	for len(buf) > 0 {
		delta, n := binary.Uvarint(buf)
		if n <= 0 {
			break
		}
		current += delta
		result = append(result, int64(current))
		buf = buf[n:]
	}
	return result
}

// uncompressedList stores sorted targets verbatim.
type uncompressedList struct {
	nodeID     int64
	targets    []int64
	properties [][]int64
}

func (l *uncompressedList) NodeID() int64 { return l.nodeID }
func (l *uncompressedList) Degree() int { return len(l.targets) }
func (l *uncompressedList) Properties() [][]int64 { return l.properties }
func (l *uncompressedList) Strategy() Strategy { return StrategyUncompressed }

func (l *uncompressedList) Bytes() int {
	return 8 * len(l.targets)
}

func (l *uncompressedList) Targets() []int64 {
	return append([]int64(nil), l.targets...)
}

// packedList stores delta-encoded targets bit-packed at a fixed width wide
// enough for the largest delta.
type packedList struct {
	nodeID     int64
	base       int64
	blocks     []uint64
	bitWidth   uint
	degree     int
	properties [][]int64
}

func (l *packedList) NodeID() int64 { return l.nodeID }
func (l *packedList) Degree() int { return l.degree }
func (l *packedList) Properties() [][]int64 { return l.properties }
func (l *packedList) Strategy() Strategy { return StrategyPacked }

func (l *packedList) Bytes() int {
	// base (8) + bit width (1) + blocks + degree (4)
	return 8 + 1 + 8*len(l.blocks) + 4
}

func (l *packedList) Targets() []int64 {
	if l.degree == 0 {
		return []int64{}
	}
	result := make([]int64, 0, l.degree)
	result = append(result, l.base)
	current := uint64(l.base)
	for i := 0; i < l.degree-1; i++ {
		current += unpackValue(l.blocks, i, l.bitWidth)
		result = append(result, int64(current))
	}
	return result
}

// packValues bit-packs values at the given width into 64-bit blocks.
func packValues(values []uint64, bitWidth uint) []uint64 {
	totalBits := uint(len(values)) * bitWidth
	blocks := make([]uint64, (totalBits+63)/64)
	for i, v := range values {
		bitPos := uint(i) * bitWidth
		block := bitPos / 64
		shift := bitPos % 64
		blocks[block] |= v << shift
		if shift+bitWidth > 64 {
			blocks[block+1] |= v >> (64 - shift)
		}
	}
	return blocks
}

// unpackValue extracts the i-th packed value.
func unpackValue(blocks []uint64, i int, bitWidth uint) uint64 {
	bitPos := uint(i) * bitWidth
	block := bitPos / 64
	shift := bitPos % 64
	v := blocks[block] >> shift
	if shift+bitWidth > 64 {
		v |= blocks[block+1] << (64 - shift)
	}
	if bitWidth == 64 {
		return v
	}
	return v & ((1 << bitWidth) - 1)
}

// packedBitWidth returns the minimal width that fits every value, at least 1.
func packedBitWidth(values []uint64) uint {
	width := 1
	for _, v := range values {
		if l := bits.Len64(v); l > width {
			width = l
		}
	}
	return uint(width)
}
