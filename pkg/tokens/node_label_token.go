package tokens

import (
	"strings"

	"github.com/patmonardo/graphcore/pkg/schema"
)

// NodeLabelToken is the ordered, possibly empty label set attached to one
// ingested node. A token is in exactly one of three states:
//
//   - empty: the node carries no labels,
//   - invalid: the raw input could not be interpreted as labels,
//   - valid: safe to use; carries zero or more labels in input order.
//
// Iteration and equality are order-preserving, and a valid token round-trips
// through Strings / FromStrings.
type NodeLabelToken interface {
	IsEmpty() bool
	IsInvalid() bool
	// IsValid reports "not invalid"; both empty and non-empty label sequences
	// are valid.
	IsValid() bool
	// Size returns the number of labels.
	Size() int
	// Get returns the label at position i. Panics when out of range.
	Get(i int) schema.NodeLabel
	// Strings returns the label names in order.
	Strings() []string
}

type emptyToken struct{}

func (emptyToken) IsEmpty() bool { return true }
func (emptyToken) IsInvalid() bool { return false }
func (emptyToken) IsValid() bool { return true }
func (emptyToken) Size() int { return 0 }
func (emptyToken) Get(i int) schema.NodeLabel { panic("empty node label token") }
func (emptyToken) Strings() []string { return []string{} }

type invalidToken struct{}

func (invalidToken) IsEmpty() bool { return false }
func (invalidToken) IsInvalid() bool { return true }
func (invalidToken) IsValid() bool { return false }
func (invalidToken) Size() int { return 0 }
func (invalidToken) Get(i int) schema.NodeLabel { panic("invalid node label token") }
func (invalidToken) Strings() []string { return []string{} }

type labelsToken struct {
	labels []schema.NodeLabel
}

func (t labelsToken) IsEmpty() bool { return len(t.labels) == 0 }
func (t labelsToken) IsInvalid() bool { return false }
func (t labelsToken) IsValid() bool { return true }
func (t labelsToken) Size() int { return len(t.labels) }

func (t labelsToken) Get(i int) schema.NodeLabel {
	return t.labels[i]
}

func (t labelsToken) Strings() []string {
	out := make([]string, len(t.labels))
	for i, l := range t.labels {
		out[i] = l.Name()
	}
	return out
}

// EmptyToken returns the token for a node without labels.
func EmptyToken() NodeLabelToken {
	return emptyToken{}
}

// InvalidToken returns the token for malformed label input.
func InvalidToken() NodeLabelToken {
	return invalidToken{}
}

// TokenOf wraps an ordered label sequence in a valid token.
func TokenOf(labels ...schema.NodeLabel) NodeLabelToken {
	if len(labels) == 0 {
		return EmptyToken()
	}
	return labelsToken{labels: append([]schema.NodeLabel(nil), labels...)}
}

// TokenFromStrings converts label names to a token. Nil input yields the
// empty token; a blank name anywhere makes the whole token invalid.
func TokenFromStrings(names []string) NodeLabelToken {
	if len(names) == 0 {
		return EmptyToken()
	}
	labels := make([]schema.NodeLabel, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return InvalidToken()
		}
		labels[i] = schema.Label(name)
	}
	return labelsToken{labels: labels}
}

// TokensEqual reports order-preserving equality of two tokens. Invalid tokens
// compare equal only to other invalid tokens.
func TokensEqual(a, b NodeLabelToken) bool {
	if a.IsInvalid() || b.IsInvalid() {
		return a.IsInvalid() && b.IsInvalid()
	}
	if a.Size() != b.Size() {
		return false
	}
	for i := 0; i < a.Size(); i++ {
		if a.Get(i) != b.Get(i) {
			return false
		}
	}
	return true
}

// tokenSignature is a map key for deduplicating tokens by their ordered label
// names. Invalid tokens share a signature distinct from every valid token.
func tokenSignature(t NodeLabelToken) string {
	if t.IsInvalid() {
		return "\x00invalid"
	}
	return strings.Join(t.Strings(), "\x1f")
}
