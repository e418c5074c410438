// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasksync/internal/config"
	"tasksync/internal/service"
)

const (
	// PageSize is the number of tasks requested per page.
	PageSize = 100

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Service over one Google Tasks list.
// Notes map to Description and the completed status to Completed.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a Google Tasks client for cfg.ListID.
// Requires oauth_client.json and token.json in the config directory; if
// either is missing or unreadable the error wraps service.ErrCredentials.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: %s not found in %s", service.ErrCredentials, config.OAuthClientFile, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: %s not found in %s", service.ErrCredentials, config.TokenFile, cfg.Dir)
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", service.ErrCredentials, config.OAuthClientFile, err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", service.ErrCredentials, config.OAuthClientFile, err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", service.ErrCredentials, config.TokenFile, err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", service.ErrCredentials, config.TokenFile, err)
	}

	// Create token source that auto-refreshes
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.ListID, cfg.Timeout)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options, such as option.WithEndpoint, are passed to the API client.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = config.DefaultListID
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{svc: svc, listID: listID, timeout: timeout}, nil
}

// ListTasks returns every task of the list, completed and hidden ones
// included, following page tokens.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := make([]service.Task, 0)
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				if t.Deleted {
					continue
				}
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(service.OpList, err)
	}
	return result, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := toAPI(task)
	body.Id = ""
	created, err := c.svc.Tasks.Insert(c.listID, body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(service.OpCreate, err)
	}
	return fromAPI(created), nil
}

// UpdateTask replaces title, notes and status of the task.
func (c *Client) UpdateTask(ctx context.Context, id string, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := toAPI(task)
	body.Id = id
	if !task.Completed {
		body.NullFields = append(body.NullFields, "Completed")
	}
	updated, err := c.svc.Tasks.Update(c.listID, id, body).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(service.OpUpdate, err)
	}
	return fromAPI(updated), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(service.OpDelete, err)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	return service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: t.Notes,
		Completed:   t.Status == statusCompleted,
	}
}

func toAPI(t service.Task) *tasks.Task {
	status := statusNeedsAction
	if t.Completed {
		status = statusCompleted
	}
	return &tasks.Task{
		Id:     t.ID,
		Title:  t.Title,
		Notes:  t.Description,
		Status: status,
	}
}

// wrapError maps API errors onto the service error taxonomy.
func wrapError(op service.Op, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" && len(apiErr.Errors) > 0 {
			msg = apiErr.Errors[0].Message
		}
		return &service.ServiceError{Op: op, StatusCode: apiErr.Code, Message: msg}
	}
	return &service.TransportError{Op: op, Err: err}
}
