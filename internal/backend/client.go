package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kiranshivaraju/keywordlens/pkg/models"
)

// Sentinel errors for backend client failures.
var (
	ErrUnavailable = errors.New("backend unavailable")
	ErrTimeout     = errors.New("backend request timeout")
	ErrNotFound    = errors.New("backend resource not found")

	ErrInvalidResponse = errors.New("backend returned invalid response")
)

// maxBodyBytes caps how much of any backend response is read into memory.
const maxBodyBytes = 32 << 20

// StatusError is returned when the backend answers with a non-2xx status.
// Body holds the raw response text so handlers can relay it.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404 StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Message returns the body text, or "HTTP <code>" when the body is empty.
func (e *StatusError) Message() string {
	if s := strings.TrimSpace(e.Body); s != "" {
		return s
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// HTTPClient implements models.KeywordProvider against the keyword
// analytics backend's HTTP API.
type HTTPClient struct {
	baseURL   string
	authToken string
	client    *http.Client
}

// NewHTTPClient creates a new backend HTTP client.
func NewHTTPClient(baseURL, authToken string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Name() string { return models.ModeBackend }

// BaseURL returns the configured backend root.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

func (c *HTTPClient) Submit(ctx context.Context, domain, email string) (*models.Submission, error) {
	body, contentType, err := multipartBody(map[string]string{"domain": domain, "email": email}, nil)
	if err != nil {
		return nil, err
	}

	resp, data, err := c.do(ctx, http.MethodPost, "/v1/keywords/expanded", body, contentType)
	if err != nil {
		return nil, err
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return &models.Submission{CSV: data}, nil
	}

	var ticket models.JobTicket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("%w: decoding submission: %v", ErrInvalidResponse, err)
	}
	sub := &models.Submission{Message: ticket.Message}
	if ticket.JobID != "" {
		if ticket.Status == "" {
			ticket.Status = models.JobStatusPending
		}
		sub.Ticket = &ticket
	}
	return sub, nil
}

func (c *HTTPClient) JobReport(ctx context.Context, jobID string) (json.RawMessage, error) {
	_, data, err := c.do(ctx, http.MethodGet, "/v1/jobs/"+url.PathEscape(jobID), nil, "")
	if err != nil {
		return nil, err
	}
	return rawJSON(data)
}

func (c *HTTPClient) DomainStatus(ctx context.Context, domain string) (json.RawMessage, error) {
	_, data, err := c.do(ctx, http.MethodGet, "/domains/"+url.PathEscape(domain)+"/status", nil, "")
	if err != nil {
		return nil, err
	}
	return rawJSON(data)
}

func (c *HTTPClient) GenerateCSV(ctx context.Context, domain string) (json.RawMessage, error) {
	_, data, err := c.do(ctx, http.MethodPost, "/domains/"+url.PathEscape(domain)+"/generate-csv", nil, "application/json")
	if err != nil {
		return nil, err
	}
	return rawJSON(data)
}

func (c *HTTPClient) DownloadCSV(ctx context.Context, domain string) ([]byte, error) {
	_, data, err := c.do(ctx, http.MethodGet, "/domains/"+url.PathEscape(domain)+"/download", nil, "")
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) Seeds(ctx context.Context, domain string) (string, error) {
	body, contentType, err := multipartBody(map[string]string{"domain": domain}, nil)
	if err != nil {
		return "", err
	}
	_, data, err := c.do(ctx, http.MethodPost, "/v1/keywords/seeds", body, contentType)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *HTTPClient) ExpandInput(ctx context.Context, filename string, content []byte) (string, error) {
	body, contentType, err := multipartBody(nil, &filePart{field: "input_file", name: filename, content: content})
	if err != nil {
		return "", err
	}
	_, data, err := c.do(ctx, http.MethodPost, "/v1/keywords/expand-input", body, contentType)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *HTTPClient) AnalyzeDomain(ctx context.Context, req models.DomainInsightsRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding domain analysis request: %w", err)
	}
	_, data, err := c.do(ctx, http.MethodPost, "/v1/domains/analyze", bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}
	return rawJSON(data)
}

// Probe checks backend reachability by requesting a well-known test job.
// Any HTTP answer, including 404, counts as reachable.
func (c *HTTPClient) Probe(ctx context.Context) (*models.BackendProbe, error) {
	u := c.baseURL + "/v1/jobs/test-job"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	return &models.BackendProbe{
		URL:        u,
		Status:     resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusText: http.StatusText(resp.StatusCode),
	}, nil
}

// do performs one request and returns the fully read body.
// Non-2xx responses become *StatusError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, classifyError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, classifyError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return resp, data, nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type filePart struct {
	field   string
	name    string
	content []byte
}

func multipartBody(fields map[string]string, file *filePart) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("writing form field %s: %w", k, err)
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", fmt.Errorf("creating form file: %w", err)
		}
		if _, err := fw.Write(file.content); err != nil {
			return nil, "", fmt.Errorf("writing form file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func rawJSON(data []byte) (json.RawMessage, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidResponse
	}
	return json.RawMessage(data), nil
}

// Compile-time check that HTTPClient implements KeywordProvider.
var _ models.KeywordProvider = (*HTTPClient)(nil)
