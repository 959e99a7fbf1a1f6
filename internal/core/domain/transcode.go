package domain

import (
	"regexp"
	"strings"
)

// Submission is the raw form shape: values keyed by header position plus the
// auxiliary "collected by" controls, which target a header by policy rather
// than by position and never reach the stored record as their own keys.
type Submission struct {
	Fields map[int]string
	// CollectedByMode is "Me" or "Other".
	CollectedByMode string
	// CollectedByOther is the free-text collector name when mode is "Other".
	CollectedByOther string
}

const (
	CollectorMe    = "Me"
	CollectorOther = "Other"
)

var (
	inputDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	sheetDateRe = regexp.MustCompile(`^\d{2}[/-]\d{2}[/-]\d{4}$`)
)

// ToSheetDate converts an input date (YYYY-MM-DD) to the persisted
// DD/MM/YYYY form. Values already sheet-shaped or malformed pass through
// unchanged; date handling never fails a submission.
func ToSheetDate(v string) string {
	if !inputDateRe.MatchString(v) {
		return v
	}
	parts := strings.SplitN(v, "-", 3)
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// ToInputDate converts a persisted date (DD/MM/YYYY or DD-MM-YYYY) back to
// the YYYY-MM-DD form date inputs expect. Anything else passes through.
func ToInputDate(v string) string {
	if !sheetDateRe.MatchString(v) {
		return v
	}
	sep := "/"
	if !strings.Contains(v, "/") {
		sep = "-"
	}
	parts := strings.SplitN(v, sep, 3)
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// ToRecord reshapes a submission into a header-keyed record. Positional key
// i maps to headers[i]; date values are reformatted for the sheet; the
// collected-by controls fold into the collected-by header; identifier and
// document headers are never populated from positional values. A position
// absent from the submission is omitted from the record, which is what keeps
// partial updates from clobbering untouched cells.
func ToRecord(sub Submission, headers []string, actor Identity) Record {
	rec := Record{}
	for i, header := range headers {
		cls := Classify(header)
		switch cls.Kind {
		case KindIdentifier, KindDocument:
			continue
		}
		if cls.OtherOption {
			continue
		}

		v, ok := sub.Fields[i]
		if !ok {
			continue
		}
		if cls.Kind == KindDate {
			v = ToSheetDate(v)
		}
		if cls.Uppercase {
			v = strings.ToUpper(v)
		}
		rec[header] = v
	}

	if header, ok := collectedByHeader(headers); ok {
		switch sub.CollectedByMode {
		case CollectorMe:
			name := actor.DisplayName()
			if name == "" {
				name = CollectorMe
			}
			rec[header] = name
		case CollectorOther:
			if v := strings.TrimSpace(sub.CollectedByOther); v != "" {
				rec[header] = v
			}
		}
	}

	return rec
}

// ToSubmission is the inverse reshaping used to pre-fill the edit form.
// Document headers are skipped (they render as previews, not text fields)
// and a stored collector matching the actor maps back to mode "Me".
func ToSubmission(rec Record, headers []string, actor Identity) Submission {
	sub := Submission{Fields: make(map[int]string)}
	for i, header := range headers {
		cls := Classify(header)
		switch cls.Kind {
		case KindIdentifier, KindDocument:
			continue
		}

		v, ok := rec[header]
		if !ok {
			continue
		}

		if cls.OtherOption {
			if v == "" {
				continue
			}
			if v == CollectorMe || v == actor.DisplayName() {
				sub.CollectedByMode = CollectorMe
			} else {
				sub.CollectedByMode = CollectorOther
				sub.CollectedByOther = v
			}
			continue
		}

		if cls.Kind == KindDate {
			v = ToInputDate(v)
		}
		sub.Fields[i] = v
	}
	return sub
}

// PassportNumber finds the passport-number value by header pattern; the
// exact header text varies between sheets ("Passport No.", "Passport No.
// ( in capital letters)").
func (r Record) PassportNumber() string {
	for k, v := range r {
		if passportNoRe.MatchString(k) {
			return v
		}
	}
	return ""
}

var passportNoRe = regexp.MustCompile(`(?i)passport\s*no`)

func collectedByHeader(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), "collected by") {
			return h, true
		}
	}
	return "", false
}
