package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/learnhub/lms-backend/internal/auth"
	"github.com/learnhub/lms-backend/internal/model"
)

// APIError is a failed catalog call. Message is the server's message field
// and must be shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// Client calls the class catalog service. The asserted role travels on
// every mutating request; list calls need none.
type Client struct {
	baseURL string
	role    auth.Role
	httpc   *http.Client
}

// NewClient creates a catalog client. baseURL is the server root, e.g.
// "http://localhost:5000".
func NewClient(baseURL string, role auth.Role) *Client {
	return &Client{
		baseURL: baseURL,
		role:    role,
		httpc:   http.DefaultClient,
	}
}

type envelope struct {
	Data struct {
		Classes []model.Class `json:"classes"`
		Class   *model.Class  `json:"class"`
		Message string        `json:"message"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FetchClasses lists the full catalog.
func (c *Client) FetchClasses(ctx context.Context) ([]model.Class, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/classes", nil, false)
	if err != nil {
		return nil, err
	}
	return env.Data.Classes, nil
}

// AddClass creates a class and returns it with its assigned ID.
func (c *Client) AddClass(ctx context.Context, class model.Class) (*model.Class, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/classes", class, true)
	if err != nil {
		return nil, err
	}
	return env.Data.Class, nil
}

// UpdateClass replaces the class at id with the given payload.
func (c *Client) UpdateClass(ctx context.Context, id uuid.UUID, class model.Class) (*model.Class, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/classes/"+id.String(), class, true)
	if err != nil {
		return nil, err
	}
	return env.Data.Class, nil
}

// DeleteClass permanently removes the class at id.
func (c *Client) DeleteClass(ctx context.Context, id uuid.UUID) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/classes/"+id.String(), nil, true)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, mutating bool) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if mutating {
		req.Header.Set(auth.RoleHeader, string(c.role))
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	// An error status always surfaces as APIError, even when the body is
	// not the usual envelope (a proxy error page, say); the status code
	// must survive for the caller.
	if resp.StatusCode >= 400 {
		msg := "request failed"
		if decodeErr == nil && env.Error != nil && env.Error.Message != "" {
			msg = env.Error.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &env, nil
}
