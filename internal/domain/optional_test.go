package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestItemPatchDistinguishesAbsentNullAndValue(t *testing.T) {
	var patch ItemPatch
	if err := json.Unmarshal([]byte(`{"description": null, "completed": true}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if patch.Title.Set {
		t.Fatal("expected title to be unset")
	}
	if !patch.Description.Set || !patch.Description.Null {
		t.Fatalf("expected explicit null description, got %+v", patch.Description)
	}
	if !patch.Completed.Set || !patch.Completed.Value {
		t.Fatalf("expected completed=true, got %+v", patch.Completed)
	}

	desc := "keep me?"
	item := Item{Title: "original", Description: &desc}
	patch.Apply(&item)
	if item.Title != "original" {
		t.Fatalf("title = %q, want %q", item.Title, "original")
	}
	if item.Description != nil {
		t.Fatalf("description = %q, want nil", *item.Description)
	}
	if !item.Completed {
		t.Fatal("expected completed to be applied")
	}
}

func TestPatchValidateRejectsNullForRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		v    interface{ Validate() error }
	}{
		{name: "item title", body: `{"title": null}`, v: &ItemPatch{}},
		{name: "user email", body: `{"email": null}`, v: &UserPatch{}},
		{name: "contact resolved", body: `{"is_resolved": null}`, v: &ContactPatch{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := json.Unmarshal([]byte(tt.body), tt.v); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if err := tt.v.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestOptionalPtr(t *testing.T) {
	if Null[string]().Ptr() != nil {
		t.Fatal("expected nil pointer for null")
	}
	if got := Some("x").Ptr(); got == nil || *got != "x" {
		t.Fatalf("Some(x).Ptr() = %v", got)
	}
}
