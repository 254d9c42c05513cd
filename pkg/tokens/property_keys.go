package tokens

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/patmonardo/graphcore/pkg/schema"
)

// NodeLabelTokenToPropertyKeys tracks which property keys belong to which
// node labels. The lazy variant discovers the mapping during import; the
// fixed variant validates the import against a predeclared schema.
type NodeLabelTokenToPropertyKeys interface {
	// Add records property keys under the token's label set. Fixed mappings
	// ignore additions: the predeclared schema is immutable.
	Add(token NodeLabelToken, propertyKeys []string)
	// NodeLabels returns the distinct labels known to this mapping, sorted by
	// name.
	NodeLabels() []schema.NodeLabel
	// PropertySchemas resolves the property schemas for one label from the
	// import schemas. A multi-label token containing the label contributes
	// its keys. Fixed mappings additionally validate the import: missing or
	// type-incompatible declared properties fail with a SchemaValidationError.
	PropertySchemas(label schema.NodeLabel, importSchemas map[string]schema.PropertySchema) (map[string]schema.PropertySchema, error)

	// labelToPropertyKeys exposes the raw per-label key sets for Union.
	labelToPropertyKeys() map[schema.NodeLabel]map[string]struct{}
}

// LazyPropertyKeys creates an empty discovery mapping.
func LazyPropertyKeys() NodeLabelTokenToPropertyKeys {
	return &lazyPropertyKeys{
		entries: make(map[string]*tokenEntry),
	}
}

// FixedPropertyKeys creates a validating mapping backed by a predeclared
// node schema.
func FixedPropertyKeys(nodeSchema *schema.NodeSchema) NodeLabelTokenToPropertyKeys {
	return &fixedPropertyKeys{schema: nodeSchema}
}

type tokenEntry struct {
	token NodeLabelToken
	keys  map[string]struct{}
}

type lazyPropertyKeys struct {
	entries map[string]*tokenEntry
}

func (l *lazyPropertyKeys) Add(token NodeLabelToken, propertyKeys []string) {
	if !token.IsValid() {
		return
	}
	sig := tokenSignature(token)
	entry, ok := l.entries[sig]
	if !ok {
		entry = &tokenEntry{token: token, keys: make(map[string]struct{})}
		l.entries[sig] = entry
	}
	for _, key := range propertyKeys {
		entry.keys[key] = struct{}{}
	}
}

func (l *lazyPropertyKeys) NodeLabels() []schema.NodeLabel {
	seen := make(map[schema.NodeLabel]struct{})
	for _, entry := range l.entries {
		for i := 0; i < entry.token.Size(); i++ {
			seen[entry.token.Get(i)] = struct{}{}
		}
	}
	return sortedLabels(seen)
}

func (l *lazyPropertyKeys) PropertySchemas(
	label schema.NodeLabel,
	importSchemas map[string]schema.PropertySchema,
) (map[string]schema.PropertySchema, error) {
	out := make(map[string]schema.PropertySchema)
	for _, entry := range l.entries {
		if !tokenContains(entry.token, label) {
			continue
		}
		for key := range entry.keys {
			if ps, ok := importSchemas[key]; ok {
				out[key] = ps
			}
		}
	}
	return out, nil
}

func (l *lazyPropertyKeys) labelToPropertyKeys() map[schema.NodeLabel]map[string]struct{} {
	out := make(map[schema.NodeLabel]map[string]struct{})
	for _, entry := range l.entries {
		for i := 0; i < entry.token.Size(); i++ {
			label := entry.token.Get(i)
			keys, ok := out[label]
			if !ok {
				keys = make(map[string]struct{})
				out[label] = keys
			}
			maps.Copy(keys, entry.keys)
		}
	}
	return out
}

type fixedPropertyKeys struct {
	schema *schema.NodeSchema
}

// Add is a no-op: the declared schema is the single source of truth.
func (f *fixedPropertyKeys) Add(token NodeLabelToken, propertyKeys []string) {}

func (f *fixedPropertyKeys) NodeLabels() []schema.NodeLabel {
	return f.schema.Labels()
}

func (f *fixedPropertyKeys) PropertySchemas(
	label schema.NodeLabel,
	importSchemas map[string]schema.PropertySchema,
) (map[string]schema.PropertySchema, error) {
	declared := f.schema.PropertySchemas(label)

	validationErr := &SchemaValidationError{Label: label}
	out := make(map[string]schema.PropertySchema, len(declared))
	for _, key := range sortedKeys(declared) {
		declaredSchema := declared[key]
		imported, ok := importSchemas[key]
		if !ok {
			validationErr.Missing = append(validationErr.Missing, key)
			continue
		}
		if !imported.Type.CompatibleWith(declaredSchema.Type) {
			validationErr.Incompatible = append(validationErr.Incompatible, TypeMismatch{
				Key:      key,
				Declared: declaredSchema.Type,
				Imported: imported.Type,
			})
			continue
		}
		out[key] = imported
	}
	if len(validationErr.Missing) > 0 || len(validationErr.Incompatible) > 0 {
		return nil, validationErr
	}
	return out, nil
}

func (f *fixedPropertyKeys) labelToPropertyKeys() map[schema.NodeLabel]map[string]struct{} {
	out := make(map[schema.NodeLabel]map[string]struct{})
	for _, label := range f.schema.Labels() {
		keys := make(map[string]struct{})
		for key := range f.schema.PropertySchemas(label) {
			keys[key] = struct{}{}
		}
		out[label] = keys
	}
	return out
}

// Union combines two independently built mappings into a new lazy mapping
// holding the union of labels and, per label, the union of property keys.
// The inputs are not modified; this is the commutative merge step applied
// once per-thread discovery has finished. Keys are carried as discovered and
// resolved against the import schemas later, at PropertySchemas time.
func Union(left, right NodeLabelTokenToPropertyKeys) NodeLabelTokenToPropertyKeys {
	merged := LazyPropertyKeys()
	for _, side := range []NodeLabelTokenToPropertyKeys{left, right} {
		for label, keys := range side.labelToPropertyKeys() {
			keyList := maps.Keys(keys)
			slices.Sort(keyList)
			merged.Add(TokenOf(label), keyList)
		}
	}
	return merged
}

func tokenContains(token NodeLabelToken, label schema.NodeLabel) bool {
	for i := 0; i < token.Size(); i++ {
		if token.Get(i) == label {
			return true
		}
	}
	return false
}

func sortedLabels(set map[schema.NodeLabel]struct{}) []schema.NodeLabel {
	labels := maps.Keys(set)
	slices.SortFunc(labels, func(a, b schema.NodeLabel) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		default:
			return 0
		}
	})
	return labels
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
