// Package schema holds the identifier and property-schema types shared by the
// ingestion pipeline: node labels, relationship types, value types, property
// schemas, and the aggregation rules applied to parallel relationships.
package schema

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AllNodesLabelName is the reserved name for the label that matches every node.
const AllNodesLabelName = "__ALL__"

// NodeLabel identifies a node label by name. The zero value is not a valid label.
type NodeLabel struct {
	name string
}

// Label creates a NodeLabel with the given name.
func Label(name string) NodeLabel {
	return NodeLabel{name: name}
}

// AllNodesLabel is the designated "all nodes" label.
func AllNodesLabel() NodeLabel {
	return NodeLabel{name: AllNodesLabelName}
}

// Name returns the label name.
func (l NodeLabel) Name() string {
	return l.name
}

// IsAllNodes reports whether this is the designated "all nodes" label.
func (l NodeLabel) IsAllNodes() bool {
	return l.name == AllNodesLabelName
}

func (l NodeLabel) String() string {
	return l.name
}

// RelationshipType identifies a relationship type by name.
type RelationshipType struct {
	name string
}

// RelType creates a RelationshipType with the given name.
func RelType(name string) RelationshipType {
	return RelationshipType{name: name}
}

// Name returns the relationship type name.
func (t RelationshipType) Name() string {
	return t.name
}

func (t RelationshipType) String() string {
	return t.name
}

// NodeSchema is a predeclared node schema: for each label, the property
// schemas the importer expects to see. It is the declaration source for fixed
// (validating) ingestion mode.
type NodeSchema struct {
	properties map[NodeLabel]map[string]PropertySchema
}

// NewNodeSchema creates an empty node schema.
func NewNodeSchema() *NodeSchema {
	return &NodeSchema{
		properties: make(map[NodeLabel]map[string]PropertySchema),
	}
}

// AddLabel declares a label without any properties.
func (s *NodeSchema) AddLabel(label NodeLabel) *NodeSchema {
	if _, ok := s.properties[label]; !ok {
		s.properties[label] = make(map[string]PropertySchema)
	}
	return s
}

// AddProperty declares a property schema for the given label.
func (s *NodeSchema) AddProperty(label NodeLabel, property PropertySchema) *NodeSchema {
	s.AddLabel(label)
	s.properties[label][property.Key] = property
	return s
}

// Labels returns all declared labels sorted by name.
func (s *NodeSchema) Labels() []NodeLabel {
	labels := maps.Keys(s.properties)
	slices.SortFunc(labels, func(a, b NodeLabel) int {
		switch {
		case a.name < b.name:
			return -1
		case a.name > b.name:
			return 1
		default:
			return 0
		}
	})
	return labels
}

// HasLabel reports whether the label is declared.
func (s *NodeSchema) HasLabel(label NodeLabel) bool {
	_, ok := s.properties[label]
	return ok
}

// PropertySchemas returns the declared property schemas for a label, keyed by
// property key. The returned map is a copy and safe to mutate.
func (s *NodeSchema) PropertySchemas(label NodeLabel) map[string]PropertySchema {
	declared, ok := s.properties[label]
	if !ok {
		return map[string]PropertySchema{}
	}
	out := make(map[string]PropertySchema, len(declared))
	maps.Copy(out, declared)
	return out
}

// Concurrency is a validated worker count.
type Concurrency struct {
	value int
}

// NewConcurrency creates a Concurrency. Returns an error for non-positive counts.
func NewConcurrency(value int) (Concurrency, error) {
	if value <= 0 {
		return Concurrency{}, fmt.Errorf("concurrency must be positive, got %d", value)
	}
	return Concurrency{value: value}, nil
}

// MustConcurrency is like NewConcurrency but panics on invalid input.
// Intended for tests and constant configuration.
func MustConcurrency(value int) Concurrency {
	c, err := NewConcurrency(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Value returns the worker count.
func (c Concurrency) Value() int {
	return c.value
}
