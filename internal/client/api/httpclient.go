package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/staffvault/pdfportal/internal/client/models"
	"github.com/staffvault/pdfportal/internal/common"
)

// HTTPClient talks to the portal API over plain HTTP/JSON. The bearer
// credential is read from the TokenSource on every request, so a login or
// logout elsewhere in the process is picked up without reconfiguration.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	// onUnauthorized fires once per rejected request, before the error is
	// returned. The session store hooks it to purge the stale credential.
	onUnauthorized func()
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying *http.Client (tests, custom
// transports). No explicit timeout is set by default; the library default
// applies.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

// WithTokenSource wires the credential provider.
func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUnauthorizedHandler registers the forced-logout hook. Set after
// construction because the session store and the client reference each other.
func (c *HTTPClient) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// do performs one request. A non-nil out receives the decoded JSON body;
// pass *[]byte to capture the raw payload (binary downloads).
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *[]byte:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		*dst = data
		return nil
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

// decodeError turns a non-2xx response into *APIError, keeping whatever
// error text and validation list the server supplied.
func decodeError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error  string       `json:"error"`
		Errors []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Error
		apiErr.Validation = body.Errors
	}
	return apiErr
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, nil, body, "application/json", out)
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	return v
}

func (c *HTTPClient) Login(ctx context.Context, companyID, birthdate string) (string, *models.Identity, error) {
	payload := map[string]string{"companyid": companyID, "birthdate": birthdate}

	var resp struct {
		Token string           `json:"token"`
		User  *models.Identity `json:"user"`
	}
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, resp.User, nil
}

func (c *HTTPClient) MyFiles(ctx context.Context) ([]models.FileSummary, error) {
	var files []models.FileSummary
	if err := c.getJSON(ctx, "/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *HTTPClient) DownloadFile(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	if err := c.do(ctx, http.MethodGet, "/files/"+url.PathEscape(id), nil, nil, "", &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) ListUsers(ctx context.Context, p ListParams) (models.Page[models.User], error) {
	var page models.Page[models.User]
	err := c.getJSON(ctx, "/admin/users", p.values(), &page)
	return page, err
}

func (c *HTTPClient) CreateUser(ctx context.Context, u models.User) error {
	return c.sendJSON(ctx, http.MethodPost, "/admin/users", u, nil)
}

func (c *HTTPClient) UpdateUser(ctx context.Context, id string, u models.User) error {
	return c.sendJSON(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), u, nil)
}

func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil, "", nil)
}

func (c *HTTPClient) DeleteNonAdminUsers(ctx context.Context) (int, error) {
	var resp struct {
		DeletedCount int `json:"deletedCount"`
	}
	if err := c.do(ctx, http.MethodDelete, "/admin/users", nil, nil, "", &resp); err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

func (c *HTTPClient) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.getJSON(ctx, "/admin/groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *HTTPClient) CreateGroup(ctx context.Context, name string) error {
	return c.sendJSON(ctx, http.MethodPost, "/admin/groups", map[string]string{"name": name}, nil)
}

func (c *HTTPClient) DeleteGroup(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/admin/groups/"+url.PathEscape(name), nil, nil, "", nil)
}

func (c *HTTPClient) ListFiles(ctx context.Context, p ListParams) (models.Page[models.FileSummary], error) {
	var page models.Page[models.FileSummary]
	err := c.getJSON(ctx, "/admin/files", p.values(), &page)
	return page, err
}

func (c *HTTPClient) UploadFile(ctx context.Context, filename string, content []byte, groups []string, displayName string) error {
	body, contentType, err := multipartBody(filename, content, func(w *multipart.Writer) error {
		for _, g := range groups {
			if err := w.WriteField("groups", g); err != nil {
				return err
			}
		}
		if displayName != "" {
			return w.WriteField("displayName", displayName)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/admin/upload", nil, body, contentType, nil)
}

func (c *HTTPClient) UpdateFile(ctx context.Context, id string, upd models.FileUpdate) error {
	return c.sendJSON(ctx, http.MethodPut, "/admin/files/"+url.PathEscape(id), upd, nil)
}

func (c *HTTPClient) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/files/"+url.PathEscape(id), nil, nil, "", nil)
}

func (c *HTTPClient) ImportUsers(ctx context.Context, filename string, content []byte) (models.ImportReport, error) {
	var report models.ImportReport
	body, contentType, err := multipartBody(filename, content, nil)
	if err != nil {
		return report, err
	}
	err = c.do(ctx, http.MethodPost, "/admin/import-users", nil, body, contentType, &report)
	return report, err
}

func (c *HTTPClient) ExportUsers(ctx context.Context, format string) ([]byte, error) {
	v := url.Values{}
	v.Set("format", format)

	var data []byte
	if err := c.do(ctx, http.MethodGet, "/admin/export-users", v, nil, "", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// multipartBody builds a multipart form with a single "file" part plus any
// extra fields written by extra (may be nil).
func multipartBody(filename string, content []byte, extra func(*multipart.Writer) error) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if extra != nil {
		if err := extra(w); err != nil {
			return nil, "", fmt.Errorf("write form field: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
