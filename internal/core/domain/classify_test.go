package domain

import (
	"reflect"
	"testing"
)

func TestClassifyPrecedence(t *testing.T) {
	cases := []struct {
		header string
		want   Classification
	}{
		{"Sl No.", Classification{Kind: KindIdentifier}},
		{"Sl No", Classification{Kind: KindIdentifier}},
		{"photo (passport size)", Classification{Kind: KindDocument}},
		{"Medical Documents (If any)", Classification{Kind: KindDocument}},
		{"Collected by", Classification{Kind: KindEnum, Choices: []string{"Me", "Other"}, OtherOption: true}},
		{"Passport Expiry Date", Classification{Kind: KindDate, DateBound: DateNotPast}},
		{"DOB", Classification{Kind: KindDate, DateBound: DateNotFuture}},
		{"Date of Birth", Classification{Kind: KindDate, DateBound: DateNotFuture}},
		{"Departure Date", Classification{Kind: KindDate, DateBound: DateNotFuture}},
		{"Passport No. ( in capital letters)", Classification{Kind: KindText, Required: true, Uppercase: true}},
		{"IFSC Code", Classification{Kind: KindText, Uppercase: true}},
		{"Been to Saudi Arabia", Classification{Kind: KindEnum, Choices: []string{"Yes", "No"}}},
		{"Hajj done before", Classification{Kind: KindEnum, Choices: []string{"no", "1", "2", "more"}}},
		{"Age", Classification{Kind: KindNumeric, Max: 100}},
		{"Sex", Classification{Kind: KindEnum, Choices: []string{"Male", "Female", "Other"}}},
		{"Full Name", Classification{Kind: KindText, Required: true}},
		{"Bank Name", Classification{Kind: KindText}},
		{"Village", Classification{Kind: KindText}},
	}

	for _, tc := range cases {
		got := Classify(tc.header)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Classify(%q) = %+v, want %+v", tc.header, got, tc.want)
		}
	}
}

func TestClassifyIsCaseAndSpaceInsensitive(t *testing.T) {
	a := Classify("  PASSPORT NO  ")
	b := Classify("passport no")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("classification differs by case/space: %+v vs %+v", a, b)
	}
}

func TestClassifyExpiryDateWinsOverGenericDate(t *testing.T) {
	got := Classify("Passport Expiry Date")
	if got.DateBound != DateNotPast {
		t.Fatalf("expected expiry rule to win, got bound %q", got.DateBound)
	}
}

func TestApplyChoiceOverrides(t *testing.T) {
	original := enumChoices["hajj done before"]
	defer func() { enumChoices["hajj done before"] = original }()

	ApplyChoiceOverrides(map[string][]string{
		"Hajj Done Before": {"no", "1", "2", "3", "more"},
		"unknown rule":     {"x"},
		"sex":              nil,
	})

	got := Classify("Hajj done before").Choices
	want := []string{"no", "1", "2", "3", "more"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("override not applied: got %v", got)
	}
	if !reflect.DeepEqual(Classify("Sex").Choices, []string{"Male", "Female", "Other"}) {
		t.Fatalf("empty override must not clear an existing set")
	}
}
