package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/phrazzld/taskdeck/internal/domain"
)

// Wire shapes. The cursor fields stay raw strings end to end so the client
// replays exactly what the server issued.
type taskPayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type pagePayload struct {
	Limit        int     `json:"limit"`
	NextCursorAt *string `json:"next_cursor_at"`
	NextCursorID *string `json:"next_cursor_id"`
}

type listPayload struct {
	Tasks []taskPayload `json:"tasks"`
	Page  pagePayload   `json:"page"`
}

type authPayload struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// HTTPClient implements TaskAPI against the taskdeck server. The session
// token lives in the injected KeyValueStore and is attached as a bearer
// credential to every task request.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	kv      KeyValueStore
}

// NewHTTPClient creates a client for the server at baseURL. If httpClient is
// nil, http.DefaultClient is used; there is no extra timeout layer beyond
// whatever the transport provides.
func NewHTTPClient(baseURL string, httpClient *http.Client, kv KeyValueStore) *HTTPClient {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    httpClient,
		kv:      kv,
	}
}

// Ensure HTTPClient implements TaskAPI interface
var _ TaskAPI = (*HTTPClient)(nil)

// Register creates a new account and stores the returned session token.
func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login authenticates an existing account and stores the session token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

// Logout discards the stored session token.
func (c *HTTPClient) Logout() {
	c.kv.Delete(SessionTokenKey)
}

func (c *HTTPClient) authenticate(ctx context.Context, path, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var payload authPayload
	if err := c.do(ctx, http.MethodPost, path, body, &payload); err != nil {
		return err
	}

	c.kv.Set(SessionTokenKey, payload.Token)
	return nil
}

// List implements TaskAPI.List
func (c *HTTPClient) List(ctx context.Context, limit int, cursor *Cursor) (*Page, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if cursor != nil {
		q.Set("cursor_at", cursor.At)
		q.Set("cursor_id", cursor.ID)
	}

	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var payload listPayload
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}

	page := &Page{Tasks: make([]Task, len(payload.Tasks))}
	for i, t := range payload.Tasks {
		page.Tasks[i] = taskFromPayload(t)
	}
	if payload.Page.NextCursorAt != nil && payload.Page.NextCursorID != nil {
		page.NextCursor = &Cursor{
			At: *payload.Page.NextCursorAt,
			ID: *payload.Page.NextCursorID,
		}
	}
	return page, nil
}

// Create implements TaskAPI.Create
func (c *HTTPClient) Create(ctx context.Context, title string) (Task, error) {
	var payload taskPayload
	err := c.do(ctx, http.MethodPost, "/api/tasks", map[string]string{"title": title}, &payload)
	if err != nil {
		return Task{}, err
	}
	return taskFromPayload(payload), nil
}

// Update implements TaskAPI.Update
func (c *HTTPClient) Update(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	body := map[string]string{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Status != nil {
		body["status"] = string(*patch.Status)
	}

	var payload taskPayload
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(id), body, &payload)
	if err != nil {
		return Task{}, err
	}
	return taskFromPayload(payload), nil
}

// Delete implements TaskAPI.Delete
func (c *HTTPClient) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

// do issues one request and decodes the response into out when non-nil.
// Non-2xx responses map onto the package sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.kv.Get(SessionTokenKey); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorFromResponse maps an error response onto a sentinel error, keeping
// the server's sanitized message for display.
func errorFromResponse(resp *http.Response) error {
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	msg := payload.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	default:
		return fmt.Errorf("server error: %s", msg)
	}
}

func taskFromPayload(t taskPayload) Task {
	return Task{
		ID:        t.ID,
		Title:     t.Title,
		Status:    domain.TaskStatus(t.Status),
		CreatedAt: t.CreatedAt,
	}
}
