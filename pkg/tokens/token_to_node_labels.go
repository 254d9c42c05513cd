// Package tokens maps node labels to compact integer tokens and tracks which
// property keys were observed (or declared) for each label set. Tokens make
// label checks an integer comparison and let per-label state live in
// array-indexed structures instead of string-keyed maps.
package tokens

import (
	"fmt"
	"sync"

	"github.com/patmonardo/graphcore/pkg/schema"
)

const (
	// AnyLabel is the token representing "all nodes".
	AnyLabel = -1
	// NoSuchLabel marks a label that has not been assigned a token yet.
	NoSuchLabel = -2
)

// TokenToNodeLabels assigns integer tokens to node labels. Within one
// instance the label/token mapping is a bijection once a label is tokenized.
type TokenToNodeLabels interface {
	// GetOrCreateToken returns the token for the label, minting one if the
	// implementation allows it.
	GetOrCreateToken(label schema.NodeLabel) (int, error)
	// LabelTokenNodeLabelMapping returns token -> labels for reverse lookup.
	LabelTokenNodeLabelMapping() map[int][]schema.NodeLabel
}

// FixedTokenToNodeLabels maps a predeclared label set to sequential tokens.
// It never mints new tokens: an unknown label is a configuration error.
type FixedTokenToNodeLabels struct {
	labelToToken map[schema.NodeLabel]int
	tokenToLabel map[int][]schema.NodeLabel
}

// Fixed pre-assigns tokens 0, 1, 2, ... to the given labels in order. The
// designated "all nodes" label always receives AnyLabel.
func Fixed(labels []schema.NodeLabel) *FixedTokenToNodeLabels {
	labelToToken := make(map[schema.NodeLabel]int, len(labels))
	tokenToLabel := make(map[int][]schema.NodeLabel, len(labels))
	nextToken := 0
	for _, label := range labels {
		if _, seen := labelToToken[label]; seen {
			continue
		}
		token := AnyLabel
		if !label.IsAllNodes() {
			token = nextToken
			nextToken++
		}
		labelToToken[label] = token
		tokenToLabel[token] = append(tokenToLabel[token], label)
	}
	return &FixedTokenToNodeLabels{
		labelToToken: labelToToken,
		tokenToLabel: tokenToLabel,
	}
}

// GetOrCreateToken returns the predeclared token for the label. Fails for
// labels outside the declared set; fixed mode is deliberately fail-fast so an
// out-of-schema label surfaces immediately instead of silently importing a
// node the declared schema cannot describe.
func (f *FixedTokenToNodeLabels) GetOrCreateToken(label schema.NodeLabel) (int, error) {
	token, ok := f.labelToToken[label]
	if !ok {
		return NoSuchLabel, fmt.Errorf("%w: %q is not part of the predeclared schema", ErrLabelNotFound, label.Name())
	}
	return token, nil
}

// LabelTokenNodeLabelMapping returns the reverse token mapping.
func (f *FixedTokenToNodeLabels) LabelTokenNodeLabelMapping() map[int][]schema.NodeLabel {
	out := make(map[int][]schema.NodeLabel, len(f.tokenToLabel))
	for token, labels := range f.tokenToLabel {
		out[token] = append([]schema.NodeLabel(nil), labels...)
	}
	return out
}

// LazyTokenToNodeLabels mints tokens on first sight. Safe for concurrent use:
// token allocation is the single shared coordination point of the ingestion
// pipeline, so the same label presented by two workers resolves to the same
// token and every token handed out is unique.
type LazyTokenToNodeLabels struct {
	mu           sync.Mutex
	labelToToken map[schema.NodeLabel]int
	tokenToLabel map[int][]schema.NodeLabel
	nextToken    int
}

// Lazy creates an empty lazy token mapping.
func Lazy() *LazyTokenToNodeLabels {
	return &LazyTokenToNodeLabels{
		labelToToken: make(map[schema.NodeLabel]int),
		tokenToLabel: make(map[int][]schema.NodeLabel),
	}
}

// GetOrCreateToken returns the cached token for a seen label or assigns the
// next sequential token to a new one. The "all nodes" label is always AnyLabel.
func (l *LazyTokenToNodeLabels) GetOrCreateToken(label schema.NodeLabel) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if token, ok := l.labelToToken[label]; ok {
		return token, nil
	}
	token := AnyLabel
	if !label.IsAllNodes() {
		token = l.nextToken
		l.nextToken++
	}
	l.labelToToken[label] = token
	l.tokenToLabel[token] = append(l.tokenToLabel[token], label)
	return token, nil
}

// LabelTokenNodeLabelMapping returns a snapshot of the reverse mapping.
func (l *LazyTokenToNodeLabels) LabelTokenNodeLabelMapping() map[int][]schema.NodeLabel {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[int][]schema.NodeLabel, len(l.tokenToLabel))
	for token, labels := range l.tokenToLabel {
		out[token] = append([]schema.NodeLabel(nil), labels...)
	}
	return out
}
