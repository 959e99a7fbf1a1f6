package domain

import (
	"reflect"
	"testing"
)

func TestToSheetDate(t *testing.T) {
	cases := map[string]string{
		"1990-05-10": "10/05/1990",
		"10/05/1990": "10/05/1990",
		"not a date": "not a date",
		"":           "",
		"1990-5-10":  "1990-5-10",
	}
	for in, want := range cases {
		if got := ToSheetDate(in); got != want {
			t.Errorf("ToSheetDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToInputDate(t *testing.T) {
	cases := map[string]string{
		"10/05/1990": "1990-05-10",
		"10-05-1990": "1990-05-10",
		"1990-05-10": "1990-05-10",
		"garbage":    "garbage",
	}
	for in, want := range cases {
		if got := ToInputDate(in); got != want {
			t.Errorf("ToInputDate(%q) = %q, want %q", in, got, want)
		}
	}
}

var formHeaders = []string{
	"Sl No.",
	"Full Name",
	"DOB",
	"Passport No. ( in capital letters)",
	"Collected by",
	"photo (passport size)",
	"Village",
}

func TestToRecordShapesSubmission(t *testing.T) {
	sub := Submission{
		Fields: map[int]string{
			1: "Rahim Sheikh",
			2: "1990-05-10",
			3: "m1234567",
			5: "should be ignored",
		},
		CollectedByMode: CollectorMe,
	}
	actor := Identity{Name: "Asha", Username: "asha"}

	rec := ToRecord(sub, formHeaders, actor)

	want := Record{
		"Full Name":                          "Rahim Sheikh",
		"DOB":                                "10/05/1990",
		"Passport No. ( in capital letters)": "M1234567",
		"Collected by":                       "Asha",
	}
	if !reflect.DeepEqual(rec, want) {
		t.Fatalf("ToRecord() = %v, want %v", rec, want)
	}
}

func TestToRecordOmitsAbsentPositions(t *testing.T) {
	sub := Submission{Fields: map[int]string{1: "Only Name"}}
	rec := ToRecord(sub, formHeaders, Identity{})

	if _, ok := rec["DOB"]; ok {
		t.Fatalf("untouched position must stay absent, got %v", rec)
	}
	if _, ok := rec["Village"]; ok {
		t.Fatalf("untouched position must stay absent, got %v", rec)
	}
}

func TestToRecordCollectorOther(t *testing.T) {
	sub := Submission{
		Fields:           map[int]string{},
		CollectedByMode:  CollectorOther,
		CollectedByOther: "  Karim  ",
	}
	rec := ToRecord(sub, formHeaders, Identity{Name: "Asha"})
	if rec["Collected by"] != "Karim" {
		t.Fatalf("collector = %q, want Karim", rec["Collected by"])
	}

	sub.CollectedByOther = "   "
	rec = ToRecord(sub, formHeaders, Identity{Name: "Asha"})
	if _, ok := rec["Collected by"]; ok {
		t.Fatalf("blank collector must be omitted, got %v", rec)
	}
}

func TestToRecordCollectorMeWithoutIdentity(t *testing.T) {
	sub := Submission{Fields: map[int]string{}, CollectedByMode: CollectorMe}
	rec := ToRecord(sub, formHeaders, Identity{})
	if rec["Collected by"] != CollectorMe {
		t.Fatalf("collector = %q, want %q", rec["Collected by"], CollectorMe)
	}
}

func TestToSubmissionRoundtrip(t *testing.T) {
	actor := Identity{Name: "Asha", Username: "asha"}
	original := Submission{
		Fields: map[int]string{
			1: "Rahim Sheikh",
			2: "1990-05-10",
			3: "M1234567",
			6: "Dariapur",
		},
		CollectedByMode: CollectorMe,
	}

	rec := ToRecord(original, formHeaders, actor)
	back := ToSubmission(rec, formHeaders, actor)

	if !reflect.DeepEqual(back.Fields, original.Fields) {
		t.Fatalf("fields roundtrip: got %v, want %v", back.Fields, original.Fields)
	}
	if back.CollectedByMode != CollectorMe {
		t.Fatalf("mode roundtrip: got %q", back.CollectedByMode)
	}
}

func TestToSubmissionForeignCollectorMapsToOther(t *testing.T) {
	rec := Record{"Collected by": "Karim"}
	sub := ToSubmission(rec, formHeaders, Identity{Name: "Asha"})
	if sub.CollectedByMode != CollectorOther || sub.CollectedByOther != "Karim" {
		t.Fatalf("got mode %q other %q", sub.CollectedByMode, sub.CollectedByOther)
	}
}

func TestToSubmissionSkipsDocumentHeaders(t *testing.T) {
	rec := Record{"photo (passport size)": "https://example.test/img.jpg"}
	sub := ToSubmission(rec, formHeaders, Identity{})
	if len(sub.Fields) != 0 {
		t.Fatalf("document header leaked into fields: %v", sub.Fields)
	}
}

func TestPassportNumberMatchesHeaderVariants(t *testing.T) {
	cases := []Record{
		{"Passport No.": "A1"},
		{"Passport No. ( in capital letters)": "A1"},
		{"PASSPORT NO": "A1"},
	}
	for _, rec := range cases {
		if rec.PassportNumber() != "A1" {
			t.Errorf("PassportNumber() missed %v", rec)
		}
	}
	if (Record{"Full Name": "x"}).PassportNumber() != "" {
		t.Errorf("expected empty passport number")
	}
}
