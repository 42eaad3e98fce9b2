package audit

import "reflect"

type FieldKind int

const (
	KindScalar FieldKind = iota
	KindToOne
	KindToMany
)

// LabelLookup resolves a stored reference (a primary-key-like value) to a
// human-readable label. It returns false when the reference cannot be
// resolved, in which case the raw value is rendered instead.
type LabelLookup func(ref any) (string, bool)

// FieldDescriptor declares how a snapshot field is rendered. Relation kinds
// are tagged explicitly here rather than inferred from the value at runtime.
type FieldDescriptor struct {
	Name   string
	Kind   FieldKind
	Lookup LabelLookup
}

// Schema is the set of fields known to the current model. Snapshot fields
// not present in the schema (removed or renamed columns) are dropped from
// diffs.
type Schema struct {
	fields map[string]FieldDescriptor
}

func NewSchema(fields ...FieldDescriptor) Schema {
	byName := make(map[string]FieldDescriptor, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	return Schema{fields: byName}
}

func (s Schema) Field(name string) (FieldDescriptor, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// DiffVersions compares two flattened snapshots of the same record and
// returns, per changed field, a [old, new] pair with relational references
// rendered as labels. Fields only present in the old snapshot are dropped,
// and a change between blank string and absent/nil is not a change.
func DiffVersions(schema Schema, oldVersion, newVersion map[string]any) map[string][]any {
	changes := make(map[string][]any)

	for name, values := range rawChanges(oldVersion, newVersion) {
		field, known := schema.Field(name)
		if !known {
			continue
		}

		rendered := []any{
			renderValue(field, values[0]),
			renderValue(field, values[1]),
		}

		// An entry may become all-blank after rendering; those are
		// dropped the same way all-blank raw changes are.
		if isBlank(rendered[0]) && isBlank(rendered[1]) {
			continue
		}
		changes[name] = rendered
	}

	return changes
}

func rawChanges(oldVersion, newVersion map[string]any) map[string][]any {
	changes := make(map[string][]any)

	for name, newValue := range newVersion {
		oldValue, present := oldVersion[name]
		if !present {
			changes[name] = []any{nil, newValue}
			continue
		}
		if areValuesDifferent(oldValue, newValue) {
			changes[name] = []any{oldValue, newValue}
		}
	}

	return changes
}

// areValuesDifferent treats blank string and nil as equivalent, so a field
// moving between them is not reported as a change.
func areValuesDifferent(oldValue, newValue any) bool {
	if isBlank(oldValue) && isBlank(newValue) {
		return false
	}
	return !reflect.DeepEqual(oldValue, newValue)
}

func isBlank(value any) bool {
	return value == nil || value == ""
}

func renderValue(field FieldDescriptor, value any) any {
	if value == nil {
		return nil
	}

	switch field.Kind {
	case KindToOne:
		return renderReference(field.Lookup, value)
	case KindToMany:
		return renderReferenceList(field.Lookup, value)
	default:
		return value
	}
}

func renderReference(lookup LabelLookup, value any) any {
	if lookup == nil {
		return value
	}
	if label, ok := lookup(value); ok {
		return label
	}
	return value
}

func renderReferenceList(lookup LabelLookup, value any) any {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return renderReference(lookup, value)
	}

	rendered := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rendered[i] = renderReference(lookup, rv.Index(i).Interface())
	}
	return rendered
}
