package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/diewo77/ventepos/internal/models"
)

func TestUserCreateRequiresAdmin(t *testing.T) {
	conn := setupTestDB(t)
	h := NewUserHandler(conn, adminGate(conn))
	normal := createUser(t, conn, "caissier", models.RoleNormal)

	w := httptest.NewRecorder()
	req := asUser(jsonReq(http.MethodPost, "/users", `{"nom":"X","login":"x","password":"secret"}`), normal.ID)
	h.Create(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	h.List(w2, asUser(httptest.NewRequest(http.MethodGet, "/users", nil), normal.ID))
	if w2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin listing, got %d", w2.Code)
	}
}

func TestUserCreateByAdminHashesPassword(t *testing.T) {
	conn := setupTestDB(t)
	h := NewUserHandler(conn, adminGate(conn))
	admin := createUser(t, conn, "patron", models.RoleAdmin)

	w := httptest.NewRecorder()
	req := asUser(jsonReq(http.MethodPost, "/users", `{"nom":"Diop","login":"mdiop","password":"Secret123","role":"Normal"}`), admin.ID)
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	var created models.User
	if err := conn.Where("login = ?", "mdiop").First(&created).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if created.Password == "Secret123" {
		t.Fatal("password must be stored hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Secret123")) != nil {
		t.Fatal("stored hash must verify against the original password")
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatal("password must not appear in the response")
	}
}

func TestUserDuplicateLogin(t *testing.T) {
	conn := setupTestDB(t)
	h := NewUserHandler(conn, adminGate(conn))
	admin := createUser(t, conn, "patron", models.RoleAdmin)
	createUser(t, conn, "mdiop", models.RoleNormal)

	w := httptest.NewRecorder()
	req := asUser(jsonReq(http.MethodPost, "/users", `{"nom":"Diop","login":"mdiop","password":"x"}`), admin.ID)
	h.Create(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
}

func TestUserInvalidRoleRejected(t *testing.T) {
	conn := setupTestDB(t)
	h := NewUserHandler(conn, adminGate(conn))
	admin := createUser(t, conn, "patron", models.RoleAdmin)

	w := httptest.NewRecorder()
	req := asUser(jsonReq(http.MethodPost, "/users", `{"nom":"X","login":"x","password":"x","role":"Root"}`), admin.ID)
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestUserCannotDeleteSelf(t *testing.T) {
	conn := setupTestDB(t)
	h := NewUserHandler(conn, adminGate(conn))
	admin := createUser(t, conn, "patron", models.RoleAdmin)

	w := httptest.NewRecorder()
	target := fmt.Sprintf("/users/delete?id=%d", admin.ID)
	h.Delete(w, asUser(httptest.NewRequest(http.MethodPost, target, nil), admin.ID))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	var count int64
	conn.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Fatalf("admin must still exist, count=%d", count)
	}
}
