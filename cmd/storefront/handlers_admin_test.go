package main

import (
	"net/http"
	"testing"

	"github.com/nawrasbh/storefront/internal/admin"
)

func TestAdminLogin(t *testing.T) {
	f := newFixture()

	w := doJSON(t, f, http.MethodPost, "/admin/login", `{"email":"admin@store.local","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(t, f, http.MethodPost, "/admin/login", `{"email":"admin@store.local","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// Unknown email answers exactly like a wrong password.
	w = doJSON(t, f, http.MethodPost, "/admin/login", `{"email":"who@store.local","password":"secret1"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, f, http.MethodPost, "/admin/login", `{"email":"admin@store.local"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestAdminChangePassword(t *testing.T) {
	f := newFixture()
	before := f.admin.admin.PasswordHash

	w := doJSON(t, f, http.MethodPut, "/admin/password", `{"current_password":"nope","new_password":"newsecret"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", w.Code, w.Body.String())
	}
	if f.admin.admin.PasswordHash != before {
		t.Fatalf("hash must be untouched after rejected change")
	}

	w = doJSON(t, f, http.MethodPut, "/admin/password", `{"current_password":"secret1","new_password":"tiny"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", w.Code)
	}

	w = doJSON(t, f, http.MethodPut, "/admin/password", `{"current_password":"secret1","new_password":"newsecret"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !admin.CheckPassword(f.admin.admin.PasswordHash, "newsecret") {
		t.Fatalf("new password not stored")
	}
}

func TestAdminUpdateEmail(t *testing.T) {
	f := newFixture()

	w := doJSON(t, f, http.MethodPut, "/admin/email", `{"email":"not-an-email"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	w = doJSON(t, f, http.MethodPut, "/admin/email", `{"email":"owner@store.local"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if f.admin.admin.Email != "owner@store.local" {
		t.Fatalf("email not stored: %s", f.admin.admin.Email)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	f := newFixture()

	w := doJSON(t, f, http.MethodPut, "/settings/store", `{"name":"Nawras","currency":"BHD"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, f, http.MethodGet, "/settings/store", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, f, http.MethodGet, "/settings/missing", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doJSON(t, f, http.MethodPut, "/settings/delivery", `"not a config"`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed delivery config, got %d", w.Code)
	}
}

func TestEvents(t *testing.T) {
	f := newFixture()

	w := doJSON(t, f, http.MethodPost, "/events", `{"name":"page_view","path":"/products","lang":"ar"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, f, http.MethodPost, "/events", `{"path":"/"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", w.Code)
	}
	if w := doJSON(t, f, http.MethodGet, "/events?limit=10", ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := doJSON(t, f, http.MethodGet, "/events/summary?days=7", ""); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
