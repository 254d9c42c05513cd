// Package adjacency selects and applies the physical encoding of adjacency
// lists. Four strategies are supported: delta-varint compression (smallest
// memory), raw fixed-width storage (fastest decode), bit-packing tuned to the
// observed value range (middle ground), and a mixed mode that picks packed or
// compressed per list. The strategy is an explicit configuration decision
// threaded through construction, not ambient global state.
package adjacency

import "fmt"

// Strategy identifies one adjacency compression strategy.
type Strategy int

const (
	// StrategyCompressed delta-encodes sorted targets into varints.
	StrategyCompressed Strategy = iota
	// StrategyUncompressed stores sorted targets as raw int64 values.
	StrategyUncompressed
	// StrategyPacked bit-packs delta-encoded targets at the minimal fixed
	// width that fits the largest delta.
	StrategyPacked
	// StrategyMixed chooses packed or compressed per adjacency list based on
	// its degree.
	StrategyMixed
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyCompressed:
		return "compressed"
	case StrategyUncompressed:
		return "uncompressed"
	case StrategyPacked:
		return "packed"
	case StrategyMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "compressed":
		return StrategyCompressed, nil
	case "uncompressed":
		return StrategyUncompressed, nil
	case "packed":
		return StrategyPacked, nil
	case "mixed":
		return StrategyMixed, nil
	default:
		return StrategyCompressed, fmt.Errorf("unknown adjacency strategy %q (want compressed, uncompressed, packed, or mixed)", s)
	}
}
