package adjacency

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/patmonardo/graphcore/pkg/pools"
	"github.com/patmonardo/graphcore/pkg/radix"
	"github.com/patmonardo/graphcore/pkg/schema"
)

// Compressor encodes one adjacency list at a time. A compressor instance is
// owned by a single worker; factories hand out one per worker.
type Compressor interface {
	// Compress encodes the adjacency of a single node. targets may arrive
	// unsorted and with duplicates; properties, when present, are
	// index-aligned columns of the same length as targets. The inputs are
	// not retained.
	Compress(nodeID int64, targets []int64, properties [][]int64) (List, error)
	Strategy() Strategy
}

// Factory constructs compressors for one configured strategy.
type Factory interface {
	NewCompressor() Compressor
	Strategy() Strategy
	// NodeCount reports the expected final node count, for capacity planning.
	NodeCount() int64
}

// mixedPackedMinDegree is the degree at which the mixed strategy switches
// from varint compression to bit packing. Short lists compress well with
// varints and avoid the packed header; long lists amortize it.
const mixedPackedMinDegree = 64

type factory struct {
	strategy      Strategy
	nodeCount     func() int64
	aggregations  []schema.Aggregation
	noAggregation bool
}

func (f *factory) Strategy() Strategy { return f.strategy }
func (f *factory) NodeCount() int64 { return f.nodeCount() }

func (f *factory) NewCompressor() Compressor {
	return &compressor{
		strategy:      f.strategy,
		aggregations:  f.aggregations,
		noAggregation: f.noAggregation,
		histogram:     radix.NewHistogram(0),
	}
}

// AsConfigured returns the compressor factory for the configured strategy.
// The noAggregation fast path is taken when every aggregation is NONE or
// SINGLE: such lists never merge values on insert, so duplicate handling is
// skipped entirely (NONE) or reduced to discarding (SINGLE).
func AsConfigured(nodeCount func() int64, strategy Strategy, aggregations []schema.Aggregation) Factory {
	noAggregation := true
	for _, a := range aggregations {
		if a.RequiresMerge() {
			noAggregation = false
			break
		}
	}
	return &factory{
		strategy:      strategy,
		nodeCount:     nodeCount,
		aggregations:  append([]schema.Aggregation(nil), aggregations...),
		noAggregation: noAggregation,
	}
}

// Compressed returns a delta-varint factory.
func Compressed(nodeCount func() int64, aggregations []schema.Aggregation) Factory {
	return AsConfigured(nodeCount, StrategyCompressed, aggregations)
}

// Uncompressed returns a raw fixed-width factory.
func Uncompressed(nodeCount func() int64, aggregations []schema.Aggregation) Factory {
	return AsConfigured(nodeCount, StrategyUncompressed, aggregations)
}

// Packed returns a bit-packing factory.
func Packed(nodeCount func() int64, aggregations []schema.Aggregation) Factory {
	return AsConfigured(nodeCount, StrategyPacked, aggregations)
}

// Mixed returns a factory choosing packed or compressed per list.
func Mixed(nodeCount func() int64, aggregations []schema.Aggregation) Factory {
	return AsConfigured(nodeCount, StrategyMixed, aggregations)
}

type compressor struct {
	strategy      Strategy
	aggregations  []schema.Aggregation
	noAggregation bool
	histogram     []int
}

func (c *compressor) Strategy() Strategy { return c.strategy }

func (c *compressor) Compress(nodeID int64, targets []int64, properties [][]int64) (List, error) {
	if nodeID < 0 {
		return nil, fmt.Errorf("negative node id %d", nodeID)
	}
	for i, column := range properties {
		if len(column) != len(targets) {
			return nil, fmt.Errorf(
				"property column %d has %d values for %d targets", i, len(column), len(targets),
			)
		}
	}

	sortedTargets, sortedProps := c.prepare(targets, properties)
	defer pools.PutInt64s(sortedTargets)

	switch c.strategy {
	case StrategyCompressed:
		return encodeCompressed(nodeID, sortedTargets, sortedProps), nil
	case StrategyUncompressed:
		return encodeUncompressed(nodeID, sortedTargets, sortedProps), nil
	case StrategyPacked:
		return encodePacked(nodeID, sortedTargets, sortedProps), nil
	case StrategyMixed:
		if len(sortedTargets) >= mixedPackedMinDegree {
			return encodePacked(nodeID, sortedTargets, sortedProps), nil
		}
		return encodeCompressed(nodeID, sortedTargets, sortedProps), nil
	default:
		return nil, fmt.Errorf("unknown adjacency strategy %d", int(c.strategy))
	}
}

// prepare sorts targets ascending, keeps property columns aligned, and
// applies the configured duplicate handling. The returned target slice comes
// from the int64 pool; the caller returns it after encoding.
func (c *compressor) prepare(targets []int64, properties [][]int64) ([]int64, [][]int64) {
	n := len(targets)
	if n == 0 {
		return pools.GetInt64s(0), nil
	}

	// Pair layout for the radix sort: data[2i] is the sort key (target),
	// data[2i+1] carries the record's original position so property columns
	// can be gathered after the sort.
	data := pools.GetInt64sSized(2 * n)
	dataCopy := pools.GetInt64sSized(2 * n)
	scratch := pools.GetInt64sSized(n)
	scratchCopy := pools.GetInt64sSized(n)
	order := make([]int, n)
	orderCopy := make([]int, n)
	for i, t := range targets {
		data[2*i] = t
		data[2*i+1] = int64(i)
		scratch[i] = 0
		order[i] = i
	}

	radix.Sort(data, dataCopy, scratch, scratchCopy, order, orderCopy, c.histogram, 2*n)

	sorted := pools.GetInt64sSized(n)
	for i := 0; i < n; i++ {
		sorted[i] = data[2*i]
	}
	sortedProps := gatherColumns(properties, order)

	pools.PutInt64s(data)
	pools.PutInt64s(dataCopy)
	pools.PutInt64s(scratch)
	pools.PutInt64s(scratchCopy)

	if c.noAggregation && !c.hasSingle() {
		return sorted, sortedProps
	}
	return c.aggregateDuplicates(sorted, sortedProps)
}

func (c *compressor) hasSingle() bool {
	for _, a := range c.aggregations {
		if a == schema.AggregationSingle {
			return true
		}
	}
	return false
}

// aggregateDuplicates collapses runs of equal targets. SINGLE keeps the first
// record of a run; merging aggregations fold each run into one record per
// property column. Property values travel as float64 bit patterns.
func (c *compressor) aggregateDuplicates(sorted []int64, props [][]int64) ([]int64, [][]int64) {
	n := len(sorted)
	if n == 0 {
		return sorted, props
	}

	out := 0
	for i := 0; i < n; i++ {
		if out > 0 && sorted[out-1] == sorted[i] {
			for k := range props {
				agg := c.aggregationFor(k)
				if !agg.RequiresMerge() {
					continue
				}
				running := floatFromBits(props[k][out-1])
				next := agg.CountStart(floatFromBits(props[k][i]))
				props[k][out-1] = bitsFromFloat(agg.Merge(running, next))
			}
			continue
		}
		sorted[out] = sorted[i]
		for k := range props {
			agg := c.aggregationFor(k)
			props[k][out] = props[k][i]
			if agg.RequiresMerge() {
				props[k][out] = bitsFromFloat(agg.CountStart(floatFromBits(props[k][i])))
			}
		}
		out++
	}

	sorted = sorted[:out]
	for k := range props {
		props[k] = props[k][:out]
	}
	return sorted, props
}

func (c *compressor) aggregationFor(column int) schema.Aggregation {
	if column < len(c.aggregations) {
		return c.aggregations[column]
	}
	return schema.AggregationNone
}

// Property values are carried across the wire as the bit pattern of their
// float64 representation, so aggregation math round-trips through these.
func floatFromBits(v int64) float64 {
	return math.Float64frombits(uint64(v))
}

func bitsFromFloat(f float64) int64 {
	return int64(math.Float64bits(f))
}

func gatherColumns(properties [][]int64, order []int) [][]int64 {
	if len(properties) == 0 {
		return nil
	}
	out := make([][]int64, len(properties))
	for k, column := range properties {
		gathered := make([]int64, len(order))
		for i, idx := range order {
			gathered[i] = column[idx]
		}
		out[k] = gathered
	}
	return out
}

func encodeCompressed(nodeID int64, sorted []int64, props [][]int64) List {
	if len(sorted) == 0 {
		return &compressedList{nodeID: nodeID, deltas: []byte{}}
	}
	buf := pools.GetBytes(len(sorted) * 2)
	for i := 1; i < len(sorted); i++ {
		buf = binary.AppendUvarint(buf, uint64(sorted[i]-sorted[i-1]))
	}
	deltas := make([]byte, len(buf))
	copy(deltas, buf)
	pools.PutBytes(buf)

	return &compressedList{
		nodeID:     nodeID,
		base:       sorted[0],
		deltas:     deltas,
		degree:     len(sorted),
		properties: props,
	}
}

func encodeUncompressed(nodeID int64, sorted []int64, props [][]int64) List {
	return &uncompressedList{
		nodeID:     nodeID,
		targets:    append([]int64(nil), sorted...),
		properties: props,
	}
}

func encodePacked(nodeID int64, sorted []int64, props [][]int64) List {
	if len(sorted) == 0 {
		return &packedList{nodeID: nodeID, bitWidth: 1}
	}
	deltas := make([]uint64, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		deltas[i-1] = uint64(sorted[i] - sorted[i-1])
	}
	width := packedBitWidth(deltas)
	return &packedList{
		nodeID:     nodeID,
		base:       sorted[0],
		blocks:     packValues(deltas, width),
		bitWidth:   width,
		degree:     len(sorted),
		properties: props,
	}
}
