package mailgun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
)

// DefaultAPIBase is the Mailgun v3 API root for the US region.
const DefaultAPIBase = "https://api.mailgun.net/v3"

// APIBaseEU is the Mailgun v3 API root for the EU region.
const APIBaseEU = "https://api.eu.mailgun.net/v3"

// basicAuthUser is the fixed username for Mailgun's HTTP Basic auth;
// the API key is the password.
const basicAuthUser = "api"

// messagesEndpoint is the path segment for the send API.
const messagesEndpoint = "messages"

// Credentials holds the Mailgun private API key and the sending domain.
// It is an immutable value, constructed once and reused for every call.
type Credentials struct {
	apiBase string
	apiKey  string
	domain  string
}

// NewCredentials creates Credentials against the default (US) API base.
func NewCredentials(apiKey, domain string) Credentials {
	return NewCredentialsWithBase(DefaultAPIBase, apiKey, domain)
}

// NewCredentialsWithBase creates Credentials against a custom API base,
// such as APIBaseEU or a test server URL.
func NewCredentialsWithBase(apiBase, apiKey, domain string) Credentials {
	return Credentials{
		apiBase: strings.TrimSuffix(apiBase, "/"),
		apiKey:  apiKey,
		domain:  domain,
	}
}

// Domain returns the sending domain.
func (c Credentials) Domain() string {
	return c.domain
}

// Client issues requests against the Mailgun v3 API. It holds no
// mutable state and is safe for concurrent use.
type Client struct {
	creds      Credentials
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. The default is a
// plain http.Client; the binding layers no timeout policy on top, so
// callers wanting one should supply their own client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the given credentials.
func New(creds Credentials, opts ...Option) *Client {
	c := &Client{
		creds:      creds,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendResponse is the success body of the messages API.
type SendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// APIError is a non-2xx response from the Mailgun API, carrying the
// HTTP status code and the provider's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Mailgun API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// errorResponse is the JSON error body the API returns on failure.
type errorResponse struct {
	Message string `json:"message"`
}

// Send delivers a message from the given sender via the messages API.
// On success it returns the provider-assigned message ID and status
// string. A non-2xx response is returned as an *APIError; transport and
// decode failures are returned as wrapped errors. The call never
// retries.
func (c *Client) Send(ctx context.Context, sender EmailAddress, msg Message) (*SendResponse, error) {
	params := buildSendParams(sender, msg)

	body, contentType, err := encodeMultipart(params, msg.Attachments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	slog.Debug("sending message",
		"domain", c.creds.domain,
		"to", params["to"],
		"attachments", len(msg.Attachments),
	)

	status, respBody, err := c.do(ctx, http.MethodPost, c.url(messagesEndpoint), contentType, body)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, decodeAPIError(status, respBody)
	}

	var parsed SendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse send response: %w", err)
	}

	slog.Debug("message accepted",
		"domain", c.creds.domain,
		"id", parsed.ID,
	)

	return &parsed, nil
}

// url joins the API base, the sending domain, and endpoint path segments.
func (c *Client) url(segments ...string) string {
	parts := append([]string{c.creds.apiBase, c.creds.domain}, segments...)
	return strings.Join(parts, "/")
}

// do performs a single authenticated HTTP exchange and returns the
// status code and response body. Errors are transport-level only;
// HTTP-level failures are the caller's to classify.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.SetBasicAuth(basicAuthUser, c.creds.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// decodeAPIError maps an error response to an *APIError, falling back
// to the raw body (or the status text) when the body is not the usual
// {"message": ...} JSON shape.
func decodeAPIError(statusCode int, body []byte) *APIError {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return &APIError{StatusCode: statusCode, Message: parsed.Message}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// encodeMultipart writes form fields and file attachments into a
// multipart/form-data body. Fields are written in sorted order so the
// encoded body is deterministic.
func encodeMultipart(params map[string]string, attachments []Attachment) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := writer.WriteField(k, params[k]); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", k, err)
		}
	}

	for _, att := range attachments {
		part, err := writer.CreateFormFile("attachment", att.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create attachment part %q: %w", att.Filename, err)
		}
		if _, err := part.Write(att.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write attachment %q: %w", att.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
