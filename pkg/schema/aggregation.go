package schema

import "fmt"

// Aggregation is the merge rule applied when multiple raw relationships exist
// between the same source/target pair.
type Aggregation int

const (
	// AggregationNone keeps parallel relationships as they are.
	AggregationNone Aggregation = iota
	// AggregationSingle keeps an arbitrary single relationship per pair.
	AggregationSingle
	AggregationSum
	AggregationMin
	AggregationMax
	AggregationCount
)

// String returns the aggregation name.
func (a Aggregation) String() string {
	switch a {
	case AggregationNone:
		return "NONE"
	case AggregationSingle:
		return "SINGLE"
	case AggregationSum:
		return "SUM"
	case AggregationMin:
		return "MIN"
	case AggregationMax:
		return "MAX"
	case AggregationCount:
		return "COUNT"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// RequiresMerge reports whether this aggregation needs merge-on-insert
// semantics during adjacency construction. NONE and SINGLE do not: parallel
// relationships are either kept verbatim or deduplicated by discarding.
func (a Aggregation) RequiresMerge() bool {
	return a != AggregationNone && a != AggregationSingle
}

// Merge combines the running aggregate with the next property value.
// Property values travel as raw float64 during import.
func (a Aggregation) Merge(running, next float64) float64 {
	switch a {
	case AggregationSum:
		return running + next
	case AggregationMin:
		if next < running {
			return next
		}
		return running
	case AggregationMax:
		if next > running {
			return next
		}
		return running
	case AggregationCount:
		return running + next
	default:
		// NONE and SINGLE keep the first value
		return running
	}
}

// CountStart returns the initial aggregate for a single relationship. COUNT
// aggregations count relationships instead of reading the property value.
func (a Aggregation) CountStart(value float64) float64 {
	if a == AggregationCount {
		return 1
	}
	return value
}
