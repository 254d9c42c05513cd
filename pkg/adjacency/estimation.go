package adjacency

import (
	"github.com/patmonardo/graphcore/pkg/schema"
)

// Memory estimation for upfront capacity planning. Estimates are upper
// bounds, never exact accounting: the planner must not run out of budget
// mid-build, so every formula assumes the worst encodable case.
//
// Per-list constants mirror the encoded layouts in list.go.
const (
	maxVarintBytes     = 9  // largest varint for a 63-bit delta
	compressedListHead = 12 // base (8) + degree (4)
	packedListHead     = 13 // base (8) + bit width (1) + degree (4)
	offsetBytesPerNode = 8  // offset into the paged target store
)

// AdjacencyListEstimation returns an upper bound, in bytes, for storing
// relationshipCount targets across nodeCount adjacency lists under the given
// strategy. This is the flat average-degree estimate used when no per-type
// breakdown exists.
func AdjacencyListEstimation(strategy Strategy, nodeCount, relationshipCount int64) int64 {
	if nodeCount < 0 {
		nodeCount = 0
	}
	if relationshipCount < 0 {
		relationshipCount = 0
	}
	offsets := nodeCount * offsetBytesPerNode
	switch strategy {
	case StrategyUncompressed:
		return offsets + relationshipCount*8
	case StrategyCompressed:
		return offsets + nodeCount*compressedListHead + relationshipCount*maxVarintBytes
	case StrategyPacked:
		// packed deltas are at most 8 bytes wide
		return offsets + nodeCount*packedListHead + relationshipCount*8
	case StrategyMixed:
		// a list may land on either encoding; bound by the larger of the two
		compressed := nodeCount*compressedListHead + relationshipCount*maxVarintBytes
		packed := nodeCount*packedListHead + relationshipCount*8
		if packed > compressed {
			return offsets + packed
		}
		return offsets + compressed
	default:
		return offsets + relationshipCount*8
	}
}

// AdjacencyListEstimationPerType sums the per-relationship-type estimates.
// Estimates are additive across types because each type builds its own
// adjacency structure.
func AdjacencyListEstimationPerType(
	strategy Strategy,
	nodeCount int64,
	relationshipCounts map[schema.RelationshipType]int64,
) int64 {
	var total int64
	for _, count := range relationshipCounts {
		total += AdjacencyListEstimation(strategy, nodeCount, count)
	}
	return total
}

// AdjacencyPropertiesEstimation returns an upper bound for storing
// propertyCount per-relationship property columns. Properties are stored
// fixed-width regardless of the target encoding.
func AdjacencyPropertiesEstimation(nodeCount, relationshipCount int64, propertyCount int) int64 {
	if propertyCount <= 0 {
		return 0
	}
	perColumn := relationshipCount*8 + nodeCount*offsetBytesPerNode
	return int64(propertyCount) * perColumn
}

// AdjacencyPropertiesEstimationPerType sums the per-type property estimates.
func AdjacencyPropertiesEstimationPerType(
	nodeCount int64,
	relationshipCounts map[schema.RelationshipType]int64,
	propertyCount int,
) int64 {
	var total int64
	for _, count := range relationshipCounts {
		total += AdjacencyPropertiesEstimation(nodeCount, count, propertyCount)
	}
	return total
}
