package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/calendar"
	"github.com/learnhub/lms-backend/internal/config"
	"github.com/learnhub/lms-backend/internal/handler"
	"github.com/learnhub/lms-backend/internal/model"
	"github.com/learnhub/lms-backend/internal/repository"
	"github.com/learnhub/lms-backend/internal/response"
	"github.com/learnhub/lms-backend/internal/router"
	"github.com/learnhub/lms-backend/internal/service"
	"github.com/learnhub/lms-backend/internal/validator"
)

// memClassStore is an in-memory service.ClassStore for handler tests.
type memClassStore struct {
	mu      sync.Mutex
	classes []model.Class
}

func (m *memClassStore) List(_ context.Context) ([]model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Class, len(m.classes))
	copy(out, m.classes)
	return out, nil
}

func (m *memClassStore) GetByID(_ context.Context, id uuid.UUID) (*model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.classes {
		if c.ID == id {
			out := c
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memClassStore) Create(_ context.Context, c *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = uuid.New()
	if c.Color == "" {
		c.Color = model.DefaultClassColor
	}
	if c.Lessons == nil {
		c.Lessons = []string{}
	}
	m.classes = append(m.classes, *c)
	return nil
}

func (m *memClassStore) Update(_ context.Context, c *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.classes {
		if m.classes[i].ID == c.ID {
			m.classes[i] = *c
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memClassStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.classes {
		if m.classes[i].ID == id {
			m.classes = append(m.classes[:i], m.classes[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memClassStore) snapshot() []model.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Class, len(m.classes))
	copy(out, m.classes)
	return out
}

func setupTestRouter(t *testing.T) (*gin.Engine, *memClassStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	store := &memClassStore{}
	log := zerolog.Nop()
	classService := service.NewClassService(store, log)
	calendarStore := calendar.NewEventStore(calendar.NewMemoryStore(), log)

	handlers := &router.Handlers{
		Class:      handler.NewClassHandler(classService),
		CalendarWS: handler.NewCalendarWSHandler(calendarStore, log, nil),
	}
	r := router.SetupRouter(auth.HeaderAuthorizer{}, handlers, &config.Config{GinMode: gin.TestMode})
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, role string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set(auth.RoleHeader, role)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":       "React Fundamentals",
		"instructor": "Dr. Sarah Smith",
		"type":       "theory",
		"lessons":    []string{"Components & JSX", "State & Props"},
		"timeTable":  "Mon, Wed, Fri - 10:00 AM",
		"place":      "Room 201",
		"duration":   "12 weeks",
		"students":   150,
		"color":      "#667eea",
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	r, _ := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/classes", nil)
	req.Header.Set(response.HeaderRequestID, "  trace-42  ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get(response.HeaderRequestID); got != "trace-42" {
		t.Fatalf("response header = %q, want the trimmed client ID", got)
	}

	var body struct {
		Metadata struct {
			RequestID string `json:"request_id"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Metadata.RequestID != "trace-42" {
		t.Fatalf("metadata request_id = %q, want trace-42", body.Metadata.RequestID)
	}

	// Without a client ID one is generated.
	w = doJSON(t, r, http.MethodGet, "/api/classes", "", nil)
	if w.Header().Get(response.HeaderRequestID) == "" {
		t.Fatal("a request ID must be generated when none is supplied")
	}
}

func TestListIsOpenToAnyCaller(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/classes", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGetClassIsOpenToAnyCaller(t *testing.T) {
	r, store := setupTestRouter(t)

	seeded := model.Class{Name: "React Fundamentals", Instructor: "Dr. Sarah Smith", Type: model.ClassTheory}
	if err := store.Create(context.Background(), &seeded); err != nil {
		t.Fatalf("seed class: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/classes/"+seeded.ID.String(), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Class model.Class `json:"class"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Data.Class.ID != seeded.ID || resp.Data.Class.Name != seeded.Name {
		t.Fatalf("got class %+v, want the seeded one", resp.Data.Class)
	}

	w = doJSON(t, r, http.MethodGet, "/api/classes/"+uuid.NewString(), "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d, want 404", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/classes/not-a-uuid", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: status = %d, want 400", w.Code)
	}
}

func TestRoleGateRefusesNonWriters(t *testing.T) {
	r, store := setupTestRouter(t)

	for _, role := range []string{"", "student", "auditor", "Teacher", "TEACHER"} {
		w := doJSON(t, r, http.MethodPost, "/api/classes", role, validPayload())
		if w.Code != http.StatusForbidden {
			t.Fatalf("role %q: status = %d, want 403", role, w.Code)
		}

		var resp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if resp.Error.Message == "" {
			t.Fatal("403 body must carry a message")
		}
	}

	if got := store.snapshot(); len(got) != 0 {
		t.Fatalf("refused calls must not change the collection, got %v", got)
	}
}

func TestCreateClass(t *testing.T) {
	r, store := setupTestRouter(t)

	for _, role := range []string{"teacher", "admin"} {
		w := doJSON(t, r, http.MethodPost, "/api/classes", role, validPayload())
		if w.Code != http.StatusCreated {
			t.Fatalf("role %q: status = %d, want 201: %s", role, w.Code, w.Body.String())
		}

		var resp struct {
			Data struct {
				Class model.Class `json:"class"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if resp.Data.Class.ID == uuid.Nil {
			t.Fatal("created class must carry its assigned id")
		}
		if got := resp.Data.Class.Lessons; len(got) != 2 || got[0] != "Components & JSX" {
			t.Fatalf("lessons order lost: %v", got)
		}
	}

	if got := len(store.snapshot()); got != 2 {
		t.Fatalf("store holds %d classes, want 2", got)
	}
}

func TestCreateClassValidation(t *testing.T) {
	r, store := setupTestRouter(t)

	bad := []map[string]interface{}{
		{"instructor": "X", "type": "theory"},                            // missing name
		{"name": "X", "type": "theory"},                                  // missing instructor
		{"name": "X", "instructor": "Y"},                                 // missing type
		{"name": "X", "instructor": "Y", "type": "seminar"},              // unknown type
		{"name": "X", "instructor": "Y", "type": "theory", "students": -1}, // negative count
	}
	for _, payload := range bad {
		w := doJSON(t, r, http.MethodPost, "/api/classes", "teacher", payload)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("payload %v: status = %d, want 400", payload, w.Code)
		}
	}

	if got := store.snapshot(); len(got) != 0 {
		t.Fatalf("invalid payloads must not be stored, got %v", got)
	}
}

func TestUpdateClassPathIDAuthoritative(t *testing.T) {
	r, store := setupTestRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/classes", "teacher", validPayload())
	var resp struct {
		Data struct {
			Class model.Class `json:"class"`
		} `json:"data"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	id := resp.Data.Class.ID

	// The payload smuggles a different id and a version marker; both are
	// ignored in favor of the path id.
	payload := validPayload()
	payload["name"] = "React Fundamentals v2"
	payload["id"] = uuid.New().String()
	payload["__v"] = 7

	w := doJSON(t, r, http.MethodPut, "/api/classes/"+id.String(), "teacher", payload)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	stored := store.snapshot()
	if len(stored) != 1 || stored[0].ID != id {
		t.Fatalf("store = %v, id must be unchanged", stored)
	}
	if stored[0].Name != "React Fundamentals v2" {
		t.Fatalf("name = %q, want the replacement", stored[0].Name)
	}
}

func TestUpdateUnknownClass(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPut, "/api/classes/"+uuid.New().String(), "admin", validPayload())
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestDeleteClass(t *testing.T) {
	r, store := setupTestRouter(t)

	created := doJSON(t, r, http.MethodPost, "/api/classes", "teacher", validPayload())
	var resp struct {
		Data struct {
			Class model.Class `json:"class"`
		} `json:"data"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode created: %v", err)
	}

	w := doJSON(t, r, http.MethodDelete, "/api/classes/"+resp.Data.Class.ID.String(), "teacher", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := store.snapshot(); len(got) != 0 {
		t.Fatalf("store = %v, want empty after delete", got)
	}
}

func TestDeleteUnknownClassLeavesStoreUntouched(t *testing.T) {
	r, store := setupTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/classes", "teacher", validPayload())
	before := store.snapshot()

	w := doJSON(t, r, http.MethodDelete, "/api/classes/"+uuid.New().String(), "teacher", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	after := store.snapshot()
	if len(after) != len(before) || after[0].ID != before[0].ID {
		t.Fatalf("collection changed: before %v, after %v", before, after)
	}
}
