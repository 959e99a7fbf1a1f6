package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestInferSchemaPreservesHeaderOrder(t *testing.T) {
	headers := []string{"Sl No.", "Full Name", "", "DOB", "Full Name", "Age"}
	schema, err := InferSchema(headers, nil)
	if err != nil {
		t.Fatalf("InferSchema() error = %v", err)
	}
	want := []string{"Sl No.", "Full Name", "DOB", "Age"}
	if !reflect.DeepEqual(schema.Headers, want) {
		t.Fatalf("headers = %v, want %v", schema.Headers, want)
	}
}

func TestInferSchemaFallsBackToSortedSampleKeys(t *testing.T) {
	sample := Record{"b": "2", "a": "1", "c": "3"}
	schema, err := InferSchema(nil, sample)
	if err != nil {
		t.Fatalf("InferSchema() error = %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(schema.Headers, want) {
		t.Fatalf("headers = %v, want %v", schema.Headers, want)
	}
}

func TestInferSchemaWithNoSourceReturnsErrNoSchema(t *testing.T) {
	if _, err := InferSchema(nil, nil); !errors.Is(err, ErrNoSchema) {
		t.Fatalf("expected ErrNoSchema, got %v", err)
	}
}

func TestEditableFieldsExcludeIdentifierAndDocuments(t *testing.T) {
	schema := &Schema{Headers: []string{
		"Sl No.", "Full Name", "photo (passport size)", "Age",
	}}
	fields := schema.EditableFields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 editable fields, got %d", len(fields))
	}
	if fields[0].Header != "Full Name" || fields[0].Index != 1 {
		t.Fatalf("unexpected first editable field %+v", fields[0])
	}
	if fields[1].Header != "Age" || fields[1].Index != 3 {
		t.Fatalf("unexpected second editable field %+v", fields[1])
	}
}

func TestDocumentFieldsKeepSchemaOrder(t *testing.T) {
	schema := &Schema{Headers: []string{
		"pancard image", "Full Name", "photo (passport size)",
	}}
	docs := schema.DocumentFields()
	if len(docs) != 2 {
		t.Fatalf("expected 2 document fields, got %d", len(docs))
	}
	if docs[0].Header != "pancard image" || docs[1].Header != "photo (passport size)" {
		t.Fatalf("unexpected document order: %+v", docs)
	}
}
