package core

import (
	"encoding/json"
	"testing"
)

type patchPayload struct {
	Title Optional[string]  `json:"title"`
	Price Optional[float64] `json:"price"`
	Bio   Optional[string]  `json:"bio"`
}

func TestOptionalDistinguishesAbsentNullAndValue(t *testing.T) {
	var p patchPayload
	if err := json.Unmarshal([]byte(`{"title":"New","price":null}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !p.Title.HasValue() || p.Title.Value != "New" {
		t.Fatalf("expected title value, got %#v", p.Title)
	}
	if !p.Price.Set || !p.Price.Null {
		t.Fatalf("expected explicit null price, got %#v", p.Price)
	}
	if p.Bio.Set {
		t.Fatalf("expected bio absent, got %#v", p.Bio)
	}
}

func TestOptionalApply(t *testing.T) {
	existing := "old"
	dst := &existing

	Optional[string]{}.Apply(&dst)
	if dst == nil || *dst != "old" {
		t.Fatal("absent optional must leave the target untouched")
	}

	Some("new").Apply(&dst)
	if dst == nil || *dst != "new" {
		t.Fatalf("expected new value, got %v", dst)
	}

	Null[string]().Apply(&dst)
	if dst != nil {
		t.Fatal("null optional must clear the target")
	}
}

func TestOptionalInvalidJSON(t *testing.T) {
	var p patchPayload
	if err := json.Unmarshal([]byte(`{"price":"abc"}`), &p); err == nil {
		t.Fatal("expected error for mistyped value")
	}
}
