package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("nom", "  ", v)
	Required("code", "P-001", v)
	if v["nom"] != "required" {
		t.Fatalf("blank field must be flagged, got %v", v)
	}
	if _, ok := v["code"]; ok {
		t.Fatal("filled field must not be flagged")
	}
}

func TestNumericValidators(t *testing.T) {
	v := Violations{}
	PositiveFloat("prix_vente", 0, v)
	NonNegativeInt("quantite", -1, v)
	PositiveInt("page", 1, v)
	if v["prix_vente"] != "must_be_positive" {
		t.Fatalf("got %v", v)
	}
	if v["quantite"] != "must_not_be_negative" {
		t.Fatalf("got %v", v)
	}
	if _, ok := v["page"]; ok {
		t.Fatal("positive value must pass")
	}
}

func TestOneOf(t *testing.T) {
	v := Violations{}
	OneOf("payment_mode", "chèque", v, "Cash", "Card")
	OneOf("role", "Admin", v, "Admin", "Normal")
	if v["payment_mode"] != "invalid_choice" {
		t.Fatalf("got %v", v)
	}
	if _, ok := v["role"]; ok {
		t.Fatal("allowed choice must pass")
	}
}
