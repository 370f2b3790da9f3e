// Package api is the single point of contact with the Digna REST backend. It
// owns the request/response contract: JSON bodies both directions, bearer
// injection from durable token storage, and a typed error for every failure
// mode so callers convert outcomes with a plain switch instead of re-parsing
// messages. There is no implicit retry and no implicit token refresh on 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dignahq/go-digna-client/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Client wraps HTTP access to the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *storage.TokenStore
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the transport (primarily for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client against baseURL, which must include the /api/v1 prefix.
func New(baseURL string, tokens *storage.TokenStore, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[api.New] token store is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		tokens:     tokens,
		log:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Tokens exposes the token store so the auth layer shares the same storage.
func (c *Client) Tokens() *storage.TokenStore {
	return c.tokens
}

type requestOptions struct {
	method       string
	body         any
	headers      map[string]string
	requiresAuth bool
}

// request performs one call against endpoint. The response body is parsed as
// JSON unconditionally; a non-2xx status becomes an *APIError carrying the
// server's error message. When out is non-nil the body is decoded into it.
func (c *Client) request(ctx context.Context, endpoint string, opts requestOptions, out any) error {
	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range opts.headers {
		headers[k] = v
	}

	if opts.requiresAuth {
		token := c.tokens.Token()
		if token == "" {
			return AuthenticationRequiredErr
		}
		headers["Authorization"] = "Bearer " + token
	}

	var bodyReader io.Reader
	if opts.body != nil {
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return errors.Wrap(err, "[Client.request] json.Marshal body")
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return errors.Wrap(err, "[Client.request] http.NewRequestWithContext")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return c.decodeResponse(method, endpoint, resp.StatusCode, raw, out)
}

func (c *Client) decodeResponse(method, endpoint string, status int, raw []byte, out any) error {
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		var env struct {
			Error *ErrorBody `json:"error"`
		}
		_ = json.Unmarshal(raw, &env)
		apiErr := &APIError{StatusCode: status}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		c.log.Debug().Str("method", method).Str("endpoint", endpoint).
			Int("status", status).Str("message", apiErr.Message).Msg("api request failed")
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrapf(err, "[Client.request] decode %s %s response", method, endpoint)
		}
	}
	return nil
}

// uploadMultipart posts a multipart form. Multipart posts are always
// protected, so the missing-token check applies before any body is built.
func (c *Client) uploadMultipart(ctx context.Context, endpoint string, fields map[string]string, files []UploadFile, out any) error {
	token := c.tokens.Token()
	if token == "" {
		return AuthenticationRequiredErr
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return errors.Wrap(err, "[Client.uploadMultipart] writer.WriteField")
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.FieldName, file.FileName)
		if err != nil {
			return errors.Wrap(err, "[Client.uploadMultipart] writer.CreateFormFile")
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return errors.Wrap(err, "[Client.uploadMultipart] io.Copy")
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, "[Client.uploadMultipart] writer.Close")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return errors.Wrap(err, "[Client.uploadMultipart] http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	return c.decodeResponse(http.MethodPost, endpoint, resp.StatusCode, raw, out)
}

// UploadFile is one file part of a multipart upload.
type UploadFile struct {
	FieldName string
	FileName  string
	Content   io.Reader
}
