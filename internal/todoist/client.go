// Package todoist is a minimal Todoist REST v2 client covering projects,
// tasks, labels and comments.
package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/sentencemine/internal/retry"
)

const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// ErrUnavailable indicates Todoist could not be reached after retries.
var ErrUnavailable = errors.New("todoist unavailable")

// APIError is a non-2xx answer from Todoist.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("todoist %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *APIError) temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Task struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"project_id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Labels      []string `json:"labels"`
}

type Comment struct {
	ID      string `json:"id"`
	TaskID  string `json:"task_id"`
	Content string `json:"content"`
}

// Config controls the client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries int
	RetryMin   time.Duration
	RetryMax   time.Duration
}

// Client calls the Todoist REST API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a Client, filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryMin <= 0 {
		cfg.RetryMin = 500 * time.Millisecond
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 5 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

// Projects lists every project of the account.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out []Project
	err := c.do(ctx, http.MethodGet, "/projects", nil, &out)
	return out, err
}

// ProjectByName returns the first project called name, or nil when none exists.
func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	projects, err := c.Projects(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].Name == name {
			return &projects[i], nil
		}
	}
	return nil, nil
}

// Tasks lists the active tasks of a project.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]Task, error) {
	var out []Task
	err := c.do(ctx, http.MethodGet, "/tasks?project_id="+url.QueryEscape(projectID), nil, &out)
	return out, err
}

func (c *Client) Task(ctx context.Context, id string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseTask marks a task as done.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil, nil)
}

// SetLabels replaces the labels of a task.
func (c *Client) SetLabels(ctx context.Context, id string, labels []string) error {
	body := map[string]any{"labels": labels}
	return c.do(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id), body, nil)
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID, content string) (*Comment, error) {
	var out Comment
	body := map[string]any{"task_id": taskID, "content": content}
	if err := c.do(ctx, http.MethodPost, "/comments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s %s: %w", method, path, err)
		}
		payload = data
	}

	var respBody []byte
	policy := retry.Exponential(c.cfg.MaxRetries, c.cfg.RetryMin, c.cfg.RetryMax, retryable)
	err := policy.Do(ctx, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		}
		respBody = data
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isNetworkError(err) || errors.Is(err, retry.ErrExhausted) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.temporary()
	}
	return isNetworkError(err)
}

func isNetworkError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}
