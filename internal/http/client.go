// Package http implements the HTTP transport shared by the Atlassian
// product clients: JSON and multipart request encoding, retry of transient
// failures, and translation of non-2xx responses into the atlas error
// taxonomy.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/forgeworks-io/atlas/internal/auth"
	"github.com/forgeworks-io/atlas/internal/constants"
	"github.com/forgeworks-io/atlas/pkg/atlas"
)

// Logger interface for transport logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request represents an HTTP request to an Atlassian API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents a parsed HTTP response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client is the HTTP transport. Paths may be relative to the base URL or
// absolute URLs (pagination cursors embed the full continuation URL).
type Client struct {
	baseURL        string
	authProvider   auth.Provider
	httpClient     *retryablehttp.Client
	logger         Logger
	debug          bool
	userAgent      string
	defaultHeaders map[string]string
	interceptors   *atlas.InterceptorChain
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the transport logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the configured logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig tunes the retry behavior for transient failures.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the underlying HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithDefaultHeaders sets headers sent with every request, e.g. the
// Service Desk experimental API opt-in.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.defaultHeaders = headers
	}
}

// WithInterceptors installs an interceptor chain around every request.
func WithInterceptors(chain *atlas.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a transport bound to baseURL. authProvider may be nil
// for unauthenticated requests.
func NewClient(baseURL string, authProvider auth.Provider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		authProvider: authProvider,
		httpClient:   retryClient,
		userAgent:    "atlas-go-client",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post issues a POST request with a JSON body. body may be nil.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// DeleteWithBody issues a DELETE request carrying a JSON body; several
// Service Desk removal endpoints require one.
func (c *Client) DeleteWithBody(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path, Body: body})
}

// PostMultipart uploads the named files as a multipart form. The XSRF check
// is disabled per Atlassian's upload protocol.
func (c *Client) PostMultipart(ctx context.Context, path string, filenames []string) (*Response, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	for _, filename := range filenames {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", filename, err)
		}

		part, err := writer.CreateFormFile("file", filepath.Base(filename))
		if err != nil {
			_ = file.Close()

			return nil, fmt.Errorf("creating form file: %w", err)
		}

		_, err = io.Copy(part, file)

		_ = file.Close()

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", filename, err)
		}
	}

	err := writer.Close()
	if err != nil {
		return nil, fmt.Errorf("finalizing multipart body: %w", err)
	}

	return c.send(ctx, &Request{
		Method: nethttp.MethodPost,
		Path:   path,
		Headers: map[string]string{
			constants.NoCheckTokenHeader: constants.NoCheckTokenValue,
		},
	}, buf.Bytes(), writer.FormDataContentType())
}

// Do issues the request, encoding Body as JSON when present.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var (
		rawBody     []byte
		contentType string
	)

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		rawBody = encoded
		contentType = "application/json"
	}

	return c.send(ctx, req, rawBody, contentType)
}

func (c *Client) send(ctx context.Context, req *Request, rawBody []byte, contentType string) (*Response, error) {
	requestURL := c.resolveURL(req.Path, req.Query)

	// The same intercepted request is passed through both phases, so
	// metadata recorded by a request interceptor is visible to the
	// response interceptors.
	var interceptReq *atlas.Request

	if c.interceptors != nil {
		interceptReq = &atlas.Request{
			Method: req.Method,
			Path:   req.Path,
			Body:   rawBody,
		}

		err := c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, requestURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if c.authProvider != nil {
		header, err := c.authProvider.AuthorizationHeader(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolving credentials: %w", err)
		}

		httpReq.Header.Set("Authorization", header)
	}

	for key, value := range c.defaultHeaders {
		httpReq.Header.Set(key, value)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if interceptReq != nil {
		for key, values := range interceptReq.Headers {
			for i, value := range values {
				if i == 0 {
					httpReq.Header.Set(key, value)
				} else {
					httpReq.Header.Add(key, value)
				}
			}
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    requestURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    requestURL,
			"status": resp.StatusCode,
		})
	}

	var respErr error
	if resp.StatusCode >= constants.HTTPStatusBadRequest {
		respErr = newAPIError(resp.StatusCode, body)
	}

	if c.interceptors != nil {
		interceptResp := &atlas.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      respErr,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, interceptResp)
		if err != nil {
			return resp, err
		}
	}

	return resp, respErr
}

func (c *Client) resolveURL(path string, query url.Values) string {
	requestURL := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		requestURL = c.baseURL + path
	}

	if len(query) > 0 {
		separator := "?"
		if strings.Contains(requestURL, "?") {
			separator = "&"
		}

		requestURL += separator + query.Encode()
	}

	return requestURL
}

// errorDetailPaths covers the error body shapes the Atlassian APIs emit:
// Bitbucket's {"error": {"message": ...}}, Service Desk's {"errorMessage":
// ...}, and Jira's {"errorMessages": [...]} and {"errors": [...]}.
var errorDetailPaths = []string{
	"error.message",
	"errorMessage",
	"errorMessages.0",
	"errors.0.message",
	"message",
}

func newAPIError(statusCode int, body []byte) *atlas.APIError {
	apiErr := &atlas.APIError{
		StatusCode: statusCode,
		Title:      nethttp.StatusText(statusCode),
	}

	for _, path := range errorDetailPaths {
		value := gjson.GetBytes(body, path)
		if value.Exists() && value.String() != "" {
			apiErr.Detail = value.String()

			break
		}
	}

	return apiErr
}
