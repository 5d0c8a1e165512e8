// Package gateway talks to the remote DummyJSON todo API.
//
// Each call issues exactly one request. Nothing is retried or cached, and the
// only validation performed is on the HTTP envelope.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-client/internal/model"
)

const DefaultBaseURL = "https://dummyjson.com"

// remoteTask is the wire shape of a task.
type remoteTask struct {
	ID        int64  `json:"id"`
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

func (rt remoteTask) toModel() model.Task {
	return model.Task{
		ID:        rt.ID,
		Title:     rt.Todo,
		Completed: rt.Completed,
		Owner:     rt.UserID,
	}
}

type createRequest struct {
	Todo      string `json:"todo"`
	Completed bool   `json:"completed"`
	UserID    int64  `json:"userId"`
}

type updateRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Todo      *string `json:"todo,omitempty"`
}

type listResponse struct {
	Todos []remoteTask `json:"todos"`
}

// DummyJSON answers deletes with isDeleted; older builds used deleted.
type deleteResponse struct {
	ID        int64 `json:"id"`
	Deleted   bool  `json:"deleted"`
	IsDeleted bool  `json:"isDeleted"`
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds a gateway for baseURL. A nil httpClient means
// http.DefaultClient, so no timeout beyond the transport default applies.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, "/todos", nil, &resp); err != nil {
		return nil, err
	}

	tasks := make([]model.Task, 0, len(resp.Todos))
	for _, rt := range resp.Todos {
		tasks = append(tasks, rt.toModel())
	}
	return tasks, nil
}

func (c *Client) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	body := createRequest{Todo: in.Title, Completed: in.Completed, UserID: in.Owner}

	var rt remoteTask
	if err := c.do(ctx, "create", http.MethodPost, "/todos/add", body, &rt); err != nil {
		return model.Task{}, err
	}
	return rt.toModel(), nil
}

func (c *Client) Update(ctx context.Context, id int64, p model.TaskPatch) (model.Task, error) {
	body := updateRequest{Completed: p.Completed, Todo: p.Title}

	var rt remoteTask
	if err := c.do(ctx, "update", http.MethodPatch, taskPath(id), body, &rt); err != nil {
		return model.Task{}, err
	}
	return rt.toModel(), nil
}

func (c *Client) Delete(ctx context.Context, id int64) (model.DeleteResult, error) {
	var resp deleteResponse
	if err := c.do(ctx, "delete", http.MethodDelete, taskPath(id), nil, &resp); err != nil {
		return model.DeleteResult{}, err
	}
	return model.DeleteResult{ID: resp.ID, Deleted: resp.Deleted || resp.IsDeleted}, nil
}

// MsgTransportFailed is reported when no response was received at all.
const MsgTransportFailed = "Failed to fetch"

func taskPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &RemoteError{Op: op, Message: "encode request", Err: err}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &RemoteError{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote request failed",
			zap.String("op", op), zap.String("path", path), zap.Error(err))
		return &RemoteError{Op: op, Message: MsgTransportFailed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp)
		c.logger.Debug("remote request rejected",
			zap.String("op", op), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

// errorMessage prefers the API's own {"message": ...} body.
func errorMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
}
