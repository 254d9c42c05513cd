package ingest

import (
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/patmonardo/graphcore/pkg/schema"
	"github.com/patmonardo/graphcore/pkg/tokens"
)

// NodeRecord is one fully assembled node ready to be flushed downstream.
type NodeRecord struct {
	ID         int64
	Labels     tokens.NodeLabelToken
	Properties map[string]float64
}

// FlushFunc receives a full batch of node records. The slice is reused after
// the call returns; implementations must copy what they keep.
type FlushFunc func(batch []NodeRecord) error

// LocalNodesBuilder accumulates one node's fields across several calls, then
// seals it with EndNode and flushes complete batches downstream. One builder
// is exclusively owned by a single worker at a time; providers recycle or
// dedicate instances depending on workload shape.
type LocalNodesBuilder struct {
	ctx       *ThreadLocalContext
	flush     FlushFunc
	batchSize int
	batch     []NodeRecord

	// accumulator for the node currently being assembled
	currentID     int64
	currentLabels tokens.NodeLabelToken
	currentProps  map[string]float64
	assembling    bool

	closed bool
}

// NewLocalNodesBuilder creates a builder bound to its worker's context.
func NewLocalNodesBuilder(ctx *ThreadLocalContext, batchSize int, flush FlushFunc) *LocalNodesBuilder {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &LocalNodesBuilder{
		ctx:       ctx,
		flush:     flush,
		batchSize: batchSize,
		batch:     make([]NodeRecord, 0, batchSize),
	}
}

// StartNode begins assembling a new node. Any node still being assembled is
// discarded; callers seal nodes with EndNode.
func (b *LocalNodesBuilder) StartNode(id int64) {
	b.currentID = id
	b.currentLabels = tokens.EmptyToken()
	b.currentProps = nil
	b.assembling = true
}

// SetLabels attaches the label set of the node being assembled.
func (b *LocalNodesBuilder) SetLabels(token tokens.NodeLabelToken) {
	b.currentLabels = token
}

// AddProperty records one property of the node being assembled.
func (b *LocalNodesBuilder) AddProperty(key string, value float64) {
	if b.currentProps == nil {
		b.currentProps = make(map[string]float64, 4)
	}
	b.currentProps[key] = value
}

// EndNode seals the node being assembled: its labels and property keys are
// registered with the thread-local context, property values land in the
// shared builders, and the record joins the current batch. A full batch is
// flushed before returning.
func (b *LocalNodesBuilder) EndNode() error {
	if b.closed {
		return fmt.Errorf("builder is closed")
	}
	if !b.assembling {
		return fmt.Errorf("no node started")
	}
	b.assembling = false

	var err error
	if len(b.currentProps) > 0 {
		keys := maps.Keys(b.currentProps)
		slices.Sort(keys)
		_, err = b.ctx.AddNodeLabelTokenAndPropertyKeys(b.currentLabels, keys)
	} else {
		_, err = b.ctx.AddNodeLabelToken(b.currentLabels)
	}
	if err != nil {
		return err
	}

	for key, value := range b.currentProps {
		builder := b.ctx.parent.PropertyBuilder(key, schema.Double)
		builder.Set(b.currentID, int64(math.Float64bits(value)))
	}

	b.batch = append(b.batch, NodeRecord{
		ID:         b.currentID,
		Labels:     b.currentLabels,
		Properties: b.currentProps,
	})
	b.currentProps = nil

	if m := b.ctx.parent.metrics; m != nil {
		m.NodesImportedTotal.Inc()
	}
	if len(b.batch) >= b.batchSize {
		return b.Flush()
	}
	return nil
}

// Flush pushes the current batch downstream, empty batches are skipped.
func (b *LocalNodesBuilder) Flush() error {
	if len(b.batch) == 0 {
		return nil
	}
	var err error
	if b.flush != nil {
		err = b.flush(b.batch)
	}
	b.batch = b.batch[:0]
	return err
}

// Reset clears the accumulator and any unflushed batch, readying the builder
// for reuse by another acquisition.
func (b *LocalNodesBuilder) Reset() {
	b.assembling = false
	b.currentProps = nil
	b.batch = b.batch[:0]
	b.closed = false
}

// Len returns the number of unflushed records.
func (b *LocalNodesBuilder) Len() int {
	return len(b.batch)
}

// Close flushes remaining records and merges the worker's discoveries into
// the master context. Idempotent.
func (b *LocalNodesBuilder) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if err := b.Flush(); err != nil {
		return err
	}
	return b.ctx.Close()
}
