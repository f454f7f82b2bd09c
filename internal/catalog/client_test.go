package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/model"
)

func TestClientSendsRoleHeaderOnMutations(t *testing.T) {
	var gotRole string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = r.Header.Get(auth.RoleHeader)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"class": model.Class{Name: "X"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, auth.RoleTeacher)
	if _, err := c.AddClass(context.Background(), model.Class{Name: "X"}); err != nil {
		t.Fatalf("AddClass: %v", err)
	}
	if gotRole != "teacher" {
		t.Fatalf("role header = %q, want %q", gotRole, "teacher")
	}
}

func TestClientFetchDoesNotAssertRole(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get(auth.RoleHeader) != ""
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"classes": []model.Class{}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, auth.RoleTeacher)
	if _, err := c.FetchClasses(context.Background()); err != nil {
		t.Fatalf("FetchClasses: %v", err)
	}
	if sawHeader {
		t.Fatal("list call must not assert a role")
	}
}

func TestClientSurfacesServerMessageVerbatim(t *testing.T) {
	const message = "Access denied. Only teachers can perform this action."
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": message},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, auth.RoleStudent)
	_, err := c.AddClass(context.Background(), model.Class{Name: "X"})
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Error() != message {
		t.Fatalf("message = %q, want it verbatim", apiErr.Error())
	}
}

func TestClientErrorWithoutEnvelopeKeepsStatus(t *testing.T) {
	// A proxy in front of the service answers with an HTML error page.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>502 Bad Gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, auth.RoleTeacher)
	_, err := c.FetchClasses(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T (%v), want *APIError", err, err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Fatal("fallback message must not be empty")
	}
}

func TestClientNetworkFailure(t *testing.T) {
	// Point at a closed server so the transport itself fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, auth.RoleTeacher)
	if _, err := c.FetchClasses(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
