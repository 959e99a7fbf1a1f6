package domain

import "sort"

// Field pairs a header with its position and policy. The index doubles as
// the submission key so header text with dots or parentheses never has to be
// sanitized into an identifier.
type Field struct {
	Index          int            `json:"index"`
	Header         string         `json:"header"`
	Classification Classification `json:"classification"`
}

// Schema is the ordered header list driving both form rendering and
// submission reconciliation.
type Schema struct {
	Headers []string
}

// InferSchema derives the schema from an explicit header list, falling back
// to the keys of a sample record. Header order is preserved and duplicates
// dropped; a map sample carries no order, so its keys are sorted to keep the
// fallback deterministic. With neither source the form cannot render and
// ErrNoSchema is returned rather than an empty schema.
func InferSchema(headers []string, sample Record) (*Schema, error) {
	source := headers
	if len(source) == 0 && len(sample) > 0 {
		source = make([]string, 0, len(sample))
		for k := range sample {
			source = append(source, k)
		}
		sort.Strings(source)
	}

	seen := make(map[string]struct{}, len(source))
	ordered := make([]string, 0, len(source))
	for _, h := range source {
		if h == "" {
			continue
		}
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		ordered = append(ordered, h)
	}

	if len(ordered) == 0 {
		return nil, ErrNoSchema
	}
	return &Schema{Headers: ordered}, nil
}

// Fields classifies every header, keeping the full list for reconciliation.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.Headers))
	for i, h := range s.Headers {
		out[i] = Field{Index: i, Header: h, Classification: Classify(h)}
	}
	return out
}

// EditableFields drops the identifier and document-reference headers, which
// render as read-only sequence and upload slots rather than text inputs.
func (s *Schema) EditableFields() []Field {
	var out []Field
	for _, f := range s.Fields() {
		if f.Classification.Kind == KindIdentifier || f.Classification.Kind == KindDocument {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DocumentFields lists the document-reference headers in schema order.
func (s *Schema) DocumentFields() []Field {
	var out []Field
	for _, f := range s.Fields() {
		if f.Classification.Kind == KindDocument {
			out = append(out, f)
		}
	}
	return out
}
