package domain

import "strings"

// FieldKind tags how a header renders and validates.
type FieldKind string

const (
	KindIdentifier FieldKind = "identifier"
	KindDate       FieldKind = "date"
	KindNumeric    FieldKind = "numeric"
	KindEnum       FieldKind = "enum"
	KindDocument   FieldKind = "document"
	KindText       FieldKind = "text"
)

// DateBound constrains the pickable range relative to "today".
type DateBound string

const (
	DateUnbounded DateBound = ""
	DateNotPast   DateBound = "not-past"
	DateNotFuture DateBound = "not-future"
)

// Classification is the rendering/validation policy derived from a header
// string alone. The same header must always classify the same way, so the
// rule table below is evaluated top to bottom with first match winning and
// consults nothing but the header text.
type Classification struct {
	Kind        FieldKind `json:"kind"`
	Required    bool      `json:"required,omitempty"`
	Uppercase   bool      `json:"uppercase,omitempty"`
	Choices     []string  `json:"choices,omitempty"`
	OtherOption bool      `json:"otherOption,omitempty"`
	DateBound   DateBound `json:"dateBound,omitempty"`
	Max         int       `json:"max,omitempty"`
}

// Enum choice sets, keyed by rule name. Overridable once at startup via
// ApplyChoiceOverrides so the sets stay data-driven without making
// classification depend on anything but the header text at call time.
var enumChoices = map[string][]string{
	"collected by":     {"Me", "Other"},
	"saudi arabia":     {"Yes", "No"},
	"hajj done before": {"no", "1", "2", "more"},
	"sex":              {"Male", "Female", "Other"},
}

// ApplyChoiceOverrides replaces enum choice sets. Call before serving
// requests; classification must not change mid-flight.
func ApplyChoiceOverrides(overrides map[string][]string) {
	for name, choices := range overrides {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := enumChoices[key]; ok && len(choices) > 0 {
			enumChoices[key] = choices
		}
	}
}

type rule struct {
	match func(h string) bool
	build func(h string) Classification
}

func contains(sub string) func(string) bool {
	return func(h string) bool { return strings.Contains(h, sub) }
}

func equals(s string) func(string) bool {
	return func(h string) bool { return h == s }
}

var rules = []rule{
	{contains("sl no"), func(string) Classification {
		return Classification{Kind: KindIdentifier}
	}},
	{isDocumentHeader, func(string) Classification {
		return Classification{Kind: KindDocument}
	}},
	{contains("collected by"), func(string) Classification {
		return Classification{Kind: KindEnum, Choices: enumChoices["collected by"], OtherOption: true}
	}},
	{contains("expiry date"), func(string) Classification {
		return Classification{Kind: KindDate, DateBound: DateNotPast}
	}},
	{func(h string) bool {
		return strings.Contains(h, "dob") || strings.Contains(h, "date of birth") || strings.Contains(h, "date")
	}, func(string) Classification {
		return Classification{Kind: KindDate, DateBound: DateNotFuture}
	}},
	{contains("passport no"), func(string) Classification {
		return Classification{Kind: KindText, Required: true, Uppercase: true}
	}},
	{contains("ifsc"), func(string) Classification {
		return Classification{Kind: KindText, Uppercase: true}
	}},
	{contains("saudi arabia"), func(string) Classification {
		return Classification{Kind: KindEnum, Choices: enumChoices["saudi arabia"]}
	}},
	{contains("hajj done before"), func(string) Classification {
		return Classification{Kind: KindEnum, Choices: enumChoices["hajj done before"]}
	}},
	{equals("age"), func(string) Classification {
		return Classification{Kind: KindNumeric, Max: 100}
	}},
	{equals("sex"), func(string) Classification {
		return Classification{Kind: KindEnum, Choices: enumChoices["sex"]}
	}},
	{func(h string) bool {
		return strings.Contains(h, "name") && !strings.Contains(h, "bank")
	}, func(string) Classification {
		return Classification{Kind: KindText, Required: true}
	}},
}

// Classify maps a header to its policy. Pure: depends on the header string
// only, so create form, edit form and listing view always agree.
func Classify(header string) Classification {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, r := range rules {
		if r.match(h) {
			return r.build(h)
		}
	}
	return Classification{Kind: KindText}
}
