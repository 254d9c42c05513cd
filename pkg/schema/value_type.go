package schema

import "fmt"

// ValueType enumerates the property value types known to the importer.
type ValueType int

const (
	Long ValueType = iota
	Double
	Float
	BigInt
	String
	Boolean
	LongArray
	DoubleArray
	FloatArray
	UnknownType
)

// String returns the canonical name of the value type.
func (v ValueType) String() string {
	switch v {
	case Long:
		return "LONG"
	case Double:
		return "DOUBLE"
	case Float:
		return "FLOAT"
	case BigInt:
		return "BIGINT"
	case String:
		return "STRING"
	case Boolean:
		return "BOOLEAN"
	case LongArray:
		return "LONG_ARRAY"
	case DoubleArray:
		return "DOUBLE_ARRAY"
	case FloatArray:
		return "FLOAT_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// CompatibleWith reports whether a value of type v may be imported where type
// other is declared. The relation is reflexive and symmetric: FLOAT and DOUBLE
// are interchangeable, as are LONG and BIGINT. Everything else must match
// exactly.
func (v ValueType) CompatibleWith(other ValueType) bool {
	if v == other {
		return true
	}
	switch {
	case v == Float && other == Double, v == Double && other == Float:
		return true
	case v == Long && other == BigInt, v == BigInt && other == Long:
		return true
	}
	return false
}

// PropertyState marks whether a property is part of the persistent graph
// store or transient (computed, not written out).
type PropertyState int

const (
	Persistent PropertyState = iota
	Transient
)

// String returns the state name.
func (s PropertyState) String() string {
	if s == Transient {
		return "TRANSIENT"
	}
	return "PERSISTENT"
}

// DefaultValue is the fallback value used when an imported node is missing a
// declared property.
type DefaultValue struct {
	value     any
	isDefined bool
}

// NoDefault returns an absent default value.
func NoDefault() DefaultValue {
	return DefaultValue{}
}

// DefaultOf wraps a concrete default value.
func DefaultOf(value any) DefaultValue {
	return DefaultValue{value: value, isDefined: true}
}

// IsDefined reports whether a default value was supplied.
func (d DefaultValue) IsDefined() bool {
	return d.isDefined
}

// Value returns the wrapped value, or nil if undefined.
func (d DefaultValue) Value() any {
	return d.value
}

func (d DefaultValue) String() string {
	if !d.isDefined {
		return "<none>"
	}
	return fmt.Sprintf("%v", d.value)
}

// PropertySchema describes one declared or discovered node property.
type PropertySchema struct {
	Key     string
	Type    ValueType
	Default DefaultValue
	State   PropertyState
}

// NewPropertySchema creates a persistent property schema without a default.
func NewPropertySchema(key string, valueType ValueType) PropertySchema {
	return PropertySchema{
		Key:     key,
		Type:    valueType,
		Default: NoDefault(),
		State:   Persistent,
	}
}
