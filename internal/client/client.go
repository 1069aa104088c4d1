// Package client talks to the keywordlens HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// ErrNetwork wraps every failure to complete a round trip.
var ErrNetwork = errors.New("network error")

// APIError is returned for non-2xx answers. Message is taken from the error
// envelope, or from a top-level "message" field, and is empty otherwise.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Submission is the outcome of POST /api/v1/analyze.
type Submission struct {
	JobID   string
	Status  string
	Message string
	CSV     []byte
}

// Client is an HTTP client for the keywordlens API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the API rooted at baseURL
// (for example http://localhost:8080).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Analyze(ctx context.Context, domain, email string) (*Submission, error) {
	resp, body, err := c.do(ctx, http.MethodPost, "/api/v1/analyze", map[string]string{
		"domain": domain,
		"email":  email,
	})
	if err != nil {
		return nil, err
	}

	if isCSV(resp.Header.Get("Content-Type")) {
		return &Submission{CSV: body}, nil
	}
	var data struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := decodeData(body, &data); err != nil {
		return nil, err
	}
	return &Submission{JobID: data.JobID, Status: data.Status, Message: data.Message}, nil
}

// Report fetches the latest snapshot of a job.
func (c *Client) Report(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	var snap models.JobSnapshot
	_, body, err := c.do(ctx, http.MethodGet, "/api/v1/report/"+url.PathEscape(jobID), nil)
	if err != nil {
		return snap, err
	}
	err = decodeData(body, &snap)
	return snap, err
}

func (c *Client) DomainStatus(ctx context.Context, domain string) (*models.DomainStatus, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/api/v1/domains/"+url.PathEscape(domain)+"/status", nil)
	if err != nil {
		return nil, err
	}
	var st models.DomainStatus
	if err := decodeData(body, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) GenerateCSV(ctx context.Context, domain string) (*models.JobTicket, error) {
	_, body, err := c.do(ctx, http.MethodPost, "/api/v1/domains/"+url.PathEscape(domain)+"/generate-csv", nil)
	if err != nil {
		return nil, err
	}
	var t models.JobTicket
	if err := decodeData(body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DownloadCSV(ctx context.Context, domain string) ([]byte, error) {
	_, body, err := c.do(ctx, http.MethodGet, "/api/v1/domains/"+url.PathEscape(domain)+"/download", nil)
	return body, err
}

func (c *Client) Notifications(ctx context.Context, limit int) ([]models.Notification, error) {
	path := "/api/v1/notifications"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	_, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var items []models.Notification
	if err := decodeData(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Subscriptions lists subscriptions, newest first. An empty domain lists
// them all.
func (c *Client) Subscriptions(ctx context.Context, domain string) ([]models.Subscription, error) {
	path := "/api/v1/notifications/subscriptions"
	if domain != "" {
		path += "?domain=" + url.QueryEscape(domain)
	}
	_, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var subs []models.Subscription
	if err := decodeData(body, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) Subscribe(ctx context.Context, domain, email string) (*models.Subscription, error) {
	_, body, err := c.do(ctx, http.MethodPost, "/api/v1/notifications", map[string]string{
		"domain": domain,
		"email":  email,
	})
	if err != nil {
		return nil, err
	}
	var sub models.Subscription
	if err := decodeData(body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// do performs one request. Transport failures wrap ErrNetwork; non-2xx
// answers become *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, []byte, error) {
	var rdr io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, parseAPIError(resp.StatusCode, body)
	}
	return resp, body, nil
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var env struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) != nil {
		return apiErr
	}
	if env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = env.Message
	}
	return apiErr
}

func decodeData(body []byte, v any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("decoding response: missing data")
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}

func isCSV(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "text/csv"
}
