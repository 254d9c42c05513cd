package ingest

import (
	"sync"

	"golang.org/x/exp/maps"

	"github.com/patmonardo/graphcore/pkg/schema"
)

// PropertyValuesBuilder accumulates the values of one node property across
// all workers. Writers synchronize on the builder itself; the build result is
// read-only once ingestion finishes.
type PropertyValuesBuilder struct {
	key       string
	valueType schema.ValueType

	mu     sync.Mutex
	values map[int64]int64 // node id -> raw value bits
}

func newPropertyValuesBuilder(key string, valueType schema.ValueType) *PropertyValuesBuilder {
	return &PropertyValuesBuilder{
		key:       key,
		valueType: valueType,
		values:    make(map[int64]int64),
	}
}

// Key returns the property key this builder accumulates.
func (b *PropertyValuesBuilder) Key() string {
	return b.key
}

// Schema returns the import-side schema of the property.
func (b *PropertyValuesBuilder) Schema() schema.PropertySchema {
	return schema.NewPropertySchema(b.key, b.valueType)
}

// Set records the raw bit representation of the property value for a node.
// Last writer wins for the same node id.
func (b *PropertyValuesBuilder) Set(nodeID, rawBits int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[nodeID] = rawBits
}

// Len returns the number of nodes with a recorded value.
func (b *PropertyValuesBuilder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Build returns a copy of the accumulated node-to-value mapping.
func (b *PropertyValuesBuilder) Build() map[int64]int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[int64]int64, len(b.values))
	maps.Copy(out, b.values)
	return out
}
