package timeclock

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// Client exposes the time tracking API operations used by the clock widget.
type Client interface {
	Ping(ctx context.Context) error
	Status(ctx context.Context, staffID string) (models.Action, error)
	Clock(ctx context.Context, staffID string, action models.Action) (string, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a client for the server at baseURL.
func NewClient(baseURL string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timeclock api error: status=%d, message=%s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool          `json:"success"`
	ID      string        `json:"id"`
	Action  models.Action `json:"action"`
	Message string        `json:"message"`
	Error   string        `json:"error"`
}

// Ping checks the API answers on /api/test.
func (c *APIClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/test", nil)
	return err
}

// Status returns the staff member's last action.
func (c *APIClient) Status(ctx context.Context, staffID string) (models.Action, error) {
	result, err := c.do(ctx, http.MethodGet, "/api/time-tracking/status/"+url.PathEscape(staffID), nil)
	if err != nil {
		return "", err
	}
	return result.Action, nil
}

// Clock records one action and returns the entry id.
func (c *APIClient) Clock(ctx context.Context, staffID string, action models.Action) (string, error) {
	body := models.ClockRequest{StaffID: staffID, Action: action}
	result, err := c.do(ctx, http.MethodPost, "/api/time-tracking/clock", body)
	if err != nil {
		return "", err
	}
	return result.ID, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	result := new(envelope)
	apiErr := new(envelope)

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.IsError() {
		message := apiErr.Error
		if message == "" {
			message = strings.TrimSpace(resp.String())
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: message}
	}
	if !result.Success {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: result.Error}
	}

	return result, nil
}
