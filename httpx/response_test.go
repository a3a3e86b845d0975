package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONWritesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"nom": "Pomme"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"Pomme"`) {
		t.Fatalf("body %q", rec.Body.String())
	}
}

func TestJSONNilPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, nil)
	if rec.Body.String() != "null" {
		t.Fatalf("body %q, want null", rec.Body.String())
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":"x","bogus":1}`))
	var dst struct {
		Nom string `json:"nom"`
	}
	if err := Decode(req, &dst); err == nil {
		t.Fatal("unknown field must be rejected")
	}
}

func TestDecodeRejectsTrailingContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nom":"x"}{"nom":"y"}`))
	var dst struct {
		Nom string `json:"nom"`
	}
	if err := Decode(req, &dst); err == nil {
		t.Fatal("trailing document must be rejected")
	}
}
