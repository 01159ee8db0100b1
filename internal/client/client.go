// Package client is a typed HTTP client for the taskboard API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redmonkez12/taskboard/internal/auth"
	"github.com/redmonkez12/taskboard/internal/httputil"
	"github.com/redmonkez12/taskboard/internal/task"
)

// ErrNotLoggedIn is returned by protected calls made without a token.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Client talks to a taskboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token sent with protected requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// Signup registers a new account and keeps the returned token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var resp auth.TokenResponse
	req := auth.CredentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", false, req, &resp, http.StatusCreated); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

// Login exchanges credentials for a token and keeps it.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp auth.TokenResponse
	req := auth.CredentialsRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, req, &resp, http.StatusOK); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.Token, nil
}

func (c *Client) Profile(ctx context.Context) (*auth.ProfileResponse, error) {
	var resp auth.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", true, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListTasks(ctx context.Context) ([]task.TaskResponse, error) {
	var resp []task.TaskResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", true, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateTask(ctx context.Context, title, description string) (*task.TaskResponse, error) {
	var resp task.TaskResponse
	req := task.CreateTaskRequest{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPost, "/api/tasks", true, req, &resp, http.StatusCreated); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateTask changes the non-nil fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, title, description *string) (*task.TaskResponse, error) {
	var resp task.TaskResponse
	req := task.UpdateTaskRequest{Title: title, Description: description}
	if err := c.do(ctx, http.MethodPut, taskPath(id), true, req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), true, nil, nil, http.StatusNoContent)
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out any, wantStatus int) error {
	if authenticated && c.token == "" {
		return ErrNotLoggedIn
	}

	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("build url for %s: %w", path, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body httputil.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
	}
	return apiErr
}
