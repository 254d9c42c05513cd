// Package ingest coordinates concurrent node ingestion: per-worker contexts
// discover labels and property keys in isolation, a master context owns the
// shared token mapping and property-builder registry, and providers hand
// ready-to-use local builders to workers.
package ingest

import (
	"sync"

	"github.com/google/uuid"

	"github.com/patmonardo/graphcore/pkg/logging"
	"github.com/patmonardo/graphcore/pkg/metrics"
	"github.com/patmonardo/graphcore/pkg/schema"
	"github.com/patmonardo/graphcore/pkg/tokens"
)

type contextKind int

const (
	lazyKind contextKind = iota
	fixedKind
)

// NodesBuilderContext is the master ingestion context. It owns the single
// authoritative token mapping, the aggregated label-to-property-keys mapping,
// and the shared registry of property-value builders. Workers never touch the
// aggregated mapping directly; their thread-local discoveries are merged in
// exactly once when each local context closes.
type NodesBuilderContext struct {
	jobID       uuid.UUID
	concurrency schema.Concurrency
	kind        contextKind
	nodeSchema  *schema.NodeSchema

	tokenToNodeLabels tokens.TokenToNodeLabels

	mu               sync.Mutex
	propertyKeys     tokens.NodeLabelTokenToPropertyKeys
	propertyBuilders map[string]*PropertyValuesBuilder
	maxToken         int

	logger  logging.Logger
	metrics *metrics.Registry
}

// Option configures a NodesBuilderContext.
type Option func(*NodesBuilderContext)

// WithLogger sets the context logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *NodesBuilderContext) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(registry *metrics.Registry) Option {
	return func(c *NodesBuilderContext) {
		c.metrics = registry
	}
}

// NewLazyContext creates a master context that discovers the label and
// property schema on the fly.
func NewLazyContext(concurrency schema.Concurrency, opts ...Option) *NodesBuilderContext {
	c := &NodesBuilderContext{
		jobID:             uuid.New(),
		concurrency:       concurrency,
		kind:              lazyKind,
		tokenToNodeLabels: tokens.Lazy(),
		propertyKeys:      tokens.LazyPropertyKeys(),
		propertyBuilders:  make(map[string]*PropertyValuesBuilder),
		maxToken:          -1,
		logger:            logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.JobID(c.jobID.String()))
	return c
}

// NewFixedContext creates a master context that validates ingestion against a
// predeclared node schema. Labels outside the schema fail fast.
func NewFixedContext(nodeSchema *schema.NodeSchema, concurrency schema.Concurrency, opts ...Option) *NodesBuilderContext {
	c := &NodesBuilderContext{
		jobID:             uuid.New(),
		concurrency:       concurrency,
		kind:              fixedKind,
		nodeSchema:        nodeSchema,
		tokenToNodeLabels: tokens.Fixed(nodeSchema.Labels()),
		propertyKeys:      tokens.FixedPropertyKeys(nodeSchema),
		propertyBuilders:  make(map[string]*PropertyValuesBuilder),
		maxToken:          -1,
		logger:            logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.JobID(c.jobID.String()))
	if c.metrics != nil {
		minted := len(c.tokenToNodeLabels.LabelTokenNodeLabelMapping())
		c.metrics.TokensMintedTotal.Add(float64(minted))
		c.maxToken = minted - 1

		var keys int
		for _, label := range nodeSchema.Labels() {
			keys += len(nodeSchema.PropertySchemas(label))
		}
		c.metrics.PropertyKeysDiscovered.Set(float64(keys))
	}
	return c
}

// JobID identifies this import run in logs and metrics.
func (c *NodesBuilderContext) JobID() uuid.UUID {
	return c.jobID
}

// Concurrency returns the configured worker count.
func (c *NodesBuilderContext) Concurrency() schema.Concurrency {
	return c.concurrency
}

// ThreadLocalContext returns a new, fully isolated per-worker context. Each
// worker gets its own instance and uses it single-threaded; token allocation
// is forwarded to the shared mapping, which is the only synchronized path
// during the concurrent phase.
func (c *NodesBuilderContext) ThreadLocalContext() *ThreadLocalContext {
	var local tokens.NodeLabelTokenToPropertyKeys
	if c.kind == fixedKind {
		local = tokens.FixedPropertyKeys(c.nodeSchema)
	} else {
		local = tokens.LazyPropertyKeys()
	}
	return &ThreadLocalContext{
		parent:       c,
		propertyKeys: local,
	}
}

// TokenToNodeLabels exposes the shared token mapping.
func (c *NodesBuilderContext) TokenToNodeLabels() tokens.TokenToNodeLabels {
	return c.tokenToNodeLabels
}

// NodeLabelTokenToPropertyKeys returns the aggregated mapping. Only fully
// merged once every thread-local context has closed.
func (c *NodesBuilderContext) NodeLabelTokenToPropertyKeys() tokens.NodeLabelTokenToPropertyKeys {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.propertyKeys
}

// PropertyBuilder returns the shared builder for a property key, creating it
// on first request. First writer wins: subsequent requests reuse the builder
// regardless of the requested value type.
func (c *NodesBuilderContext) PropertyBuilder(key string, valueType schema.ValueType) *PropertyValuesBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.propertyBuilders[key]; ok {
		return b
	}
	b := newPropertyValuesBuilder(key, valueType)
	c.propertyBuilders[key] = b
	return b
}

// NodePropertyBuilders returns a snapshot of the shared builder registry.
func (c *NodesBuilderContext) NodePropertyBuilders() map[string]*PropertyValuesBuilder {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]*PropertyValuesBuilder, len(c.propertyBuilders))
	for key, b := range c.propertyBuilders {
		out[key] = b
	}
	return out
}

// ImportPropertySchemas derives the import-side property schemas from the
// registered builders, keyed by property key.
func (c *NodesBuilderContext) ImportPropertySchemas() map[string]schema.PropertySchema {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.importPropertySchemasLocked()
}

// mergeLocal folds one closed thread-local mapping into the aggregated
// mapping. Pure union, serialized behind the context lock; inputs are frozen
// before the call so no further coordination is needed.
func (c *NodesBuilderContext) mergeLocal(local tokens.NodeLabelTokenToPropertyKeys) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kind == fixedKind {
		// the declared schema already is the merged result
		return
	}
	c.propertyKeys = tokens.Union(c.propertyKeys, local)
	if c.metrics != nil {
		c.metrics.PropertyKeysDiscovered.Set(float64(len(c.propertyBuilders)))
	}
}

// noteToken counts newly minted tokens. Lazy tokens are sequential, so any
// token above the high-water mark is new.
func (c *NodesBuilderContext) noteToken(token int) {
	if c.metrics == nil || token < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if token > c.maxToken {
		c.metrics.TokensMintedTotal.Add(float64(token - c.maxToken))
		c.maxToken = token
	}
}

// importPropertySchemasLocked requires c.mu to be held.
func (c *NodesBuilderContext) importPropertySchemasLocked() map[string]schema.PropertySchema {
	out := make(map[string]schema.PropertySchema, len(c.propertyBuilders))
	for key, b := range c.propertyBuilders {
		out[key] = b.Schema()
	}
	return out
}

// ThreadLocalContext is the per-worker ingestion state: a private
// label-token-to-property-keys mapping plus a reference to the shared token
// mapping. Never shared between workers; merged into the master exactly once
// on Close.
type ThreadLocalContext struct {
	parent       *NodesBuilderContext
	propertyKeys tokens.NodeLabelTokenToPropertyKeys
	merged       bool
}

// AddNodeLabelToken records a node's label set, forwarding token creation to
// the shared mapping. Returns the tokens in label order.
func (t *ThreadLocalContext) AddNodeLabelToken(token tokens.NodeLabelToken) ([]int, error) {
	return t.addToken(token, nil)
}

// AddNodeLabelTokenAndPropertyKeys records a label set together with the
// property keys observed on the node.
func (t *ThreadLocalContext) AddNodeLabelTokenAndPropertyKeys(token tokens.NodeLabelToken, propertyKeys []string) ([]int, error) {
	return t.addToken(token, propertyKeys)
}

func (t *ThreadLocalContext) addToken(token tokens.NodeLabelToken, propertyKeys []string) ([]int, error) {
	if !token.IsValid() {
		return nil, tokens.ErrInvalidNodeLabels
	}
	labelTokens := make([]int, token.Size())
	for i := 0; i < token.Size(); i++ {
		labelToken, err := t.parent.tokenToNodeLabels.GetOrCreateToken(token.Get(i))
		if err != nil {
			return nil, err
		}
		labelTokens[i] = labelToken
		t.parent.noteToken(labelToken)
	}
	t.propertyKeys.Add(token, propertyKeys)
	return labelTokens, nil
}

// Close merges the local discoveries into the master context. Safe to call
// more than once; only the first call merges.
func (t *ThreadLocalContext) Close() error {
	if t.merged {
		return nil
	}
	t.merged = true
	t.parent.mergeLocal(t.propertyKeys)
	return nil
}
