// Package api is the HTTP JSON client for the dashboard backend. Every data
// endpoint is POST with a JSON body; responses come wrapped in a {"data": ...}
// envelope.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/lazydash/lazydash/internal/filter"
	"github.com/lazydash/lazydash/internal/models"
)

// TokenFunc supplies the current bearer token, empty when unauthenticated.
type TokenFunc func() string

// Client talks to one backend instance.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	logger  *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken installs the bearer token source.
func WithToken(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

// WithLogger installs the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrderSpec is one sort directive in a data request.
type OrderSpec struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// DataRequest is the body of the data, detail and export endpoints.
type DataRequest struct {
	Fields   []string        `json:"fields,omitempty"`
	Filters  []*filter.Group `json:"filters,omitempty"`
	Orders   []OrderSpec     `json:"orders,omitempty"`
	Page     int             `json:"page,omitempty"`
	PageSize int             `json:"page_size,omitempty"`
	Codes    []string        `json:"codes,omitempty"`
}

func viewPath(s models.Scope) string {
	return fmt.Sprintf("/t/%s/p/%s/o/%s/view/%s",
		url.PathEscape(s.TenantCode), url.PathEscape(s.ProductCode),
		url.PathEscape(s.ObjectCode), url.PathEscape(s.ViewContentCode))
}

func objectPath(s models.Scope) string {
	return fmt.Sprintf("/t/%s/p/%s/o/%s",
		url.PathEscape(s.TenantCode), url.PathEscape(s.ProductCode),
		url.PathEscape(s.ObjectCode))
}

// Record fetches the layout document for a view.
func (c *Client) Record(ctx context.Context, scope models.Scope) (*models.LayoutDocument, error) {
	var doc models.LayoutDocument
	if err := c.post(ctx, viewPath(scope)+"/record", nil, &doc, MissingLayout); err != nil {
		return nil, err
	}
	if len(doc.Layout) == 0 {
		return nil, newError(MissingLayout, 0,
			fmt.Sprintf("view %s has no layout", scope.ViewContentCode), nil)
	}
	return &doc, nil
}

// Data fetches one page of records for a view.
func (c *Client) Data(ctx context.Context, scope models.Scope, req DataRequest) (*models.PagedResult, error) {
	var result models.PagedResult
	if err := c.post(ctx, viewPath(scope)+"/data", req, &result, NetworkFailure); err != nil {
		return nil, err
	}
	return &result, nil
}

// ObjectData fetches records through the object-level data endpoint, used
// when no view content is in play, such as foreign-key option lookups.
func (c *Client) ObjectData(ctx context.Context, scope models.Scope, req DataRequest) (*models.PagedResult, error) {
	var result models.PagedResult
	if err := c.post(ctx, objectPath(scope)+"/data", req, &result, NetworkFailure); err != nil {
		return nil, err
	}
	return &result, nil
}

// Detail fetches a single record by serial.
func (c *Client) Detail(ctx context.Context, scope models.Scope, serial string, req DataRequest) (models.Row, error) {
	var row models.Row
	path := viewPath(scope) + "/data/detail/" + url.PathEscape(serial)
	if err := c.post(ctx, path, req, &row, NetworkFailure); err != nil {
		return nil, err
	}
	return row, nil
}

// Navigation fetches the menu document for a view scope.
func (c *Client) Navigation(ctx context.Context, scope models.Scope) ([]*models.NavigationItem, error) {
	var items []*models.NavigationItem
	if err := c.post(ctx, viewPath(scope)+"/navigation", nil, &items, NetworkFailure); err != nil {
		return nil, err
	}
	models.Link(items)
	return items, nil
}

// Export requests a server-side export of the current query. The payload's
// data field is base64; decoding happens in the export package.
func (c *Client) Export(ctx context.Context, scope models.Scope, req DataRequest) (*models.ExportResult, error) {
	var result models.ExportResult
	if err := c.post(ctx, viewPath(scope)+"/export", req, &result, ExportFailure); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create inserts a new record.
func (c *Client) Create(ctx context.Context, scope models.Scope, values map[string]any) error {
	return c.send(ctx, http.MethodPut, objectPath(scope)+"/data", values, nil, SubmitFailure)
}

// Update patches an existing record by serial.
func (c *Client) Update(ctx context.Context, scope models.Scope, serial string, values map[string]any) error {
	path := objectPath(scope) + "/data/" + url.PathEscape(serial)
	return c.send(ctx, http.MethodPatch, path, values, nil, SubmitFailure)
}

// Delete removes a record by serial.
func (c *Client) Delete(ctx context.Context, scope models.Scope, serial string) error {
	path := objectPath(scope) + "/data/" + url.PathEscape(serial)
	return c.send(ctx, http.MethodDelete, path, nil, nil, DeleteFailure)
}

// TenantConfig fetches tenant branding.
func (c *Client) TenantConfig(ctx context.Context, tenantCode string) (*models.TenantConfig, error) {
	var cfg models.TenantConfig
	path := "/t/" + url.PathEscape(tenantCode)
	if err := c.post(ctx, path, nil, &cfg, NetworkFailure); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProductConfig fetches product branding.
func (c *Client) ProductConfig(ctx context.Context, tenantCode, productCode string) (*models.ProductConfig, error) {
	var cfg models.ProductConfig
	path := "/t/" + url.PathEscape(tenantCode) + "/p/" + url.PathEscape(productCode)
	if err := c.post(ctx, path, nil, &cfg, NetworkFailure); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func authPath(tenantCode, productCode, leaf string) string {
	return "/t/" + url.PathEscape(tenantCode) + "/p/" + url.PathEscape(productCode) + "/auth/" + leaf
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, tenantCode, productCode, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session models.Session
	if err := c.post(ctx, authPath(tenantCode, productCode, "login"), body, &session, AuthFailure); err != nil {
		return nil, err
	}
	return &session, nil
}

// GoogleLogin exchanges an OAuth authorization code for a session.
func (c *Client) GoogleLogin(ctx context.Context, tenantCode, productCode, code string) (*models.Session, error) {
	body := map[string]string{"code": code}
	var session models.Session
	if err := c.post(ctx, authPath(tenantCode, productCode, "google-login"), body, &session, AuthFailure); err != nil {
		return nil, err
	}
	return &session, nil
}

// CurrentUser validates the stored token and returns the profile behind it.
func (c *Client) CurrentUser(ctx context.Context, tenantCode, productCode string) (models.User, error) {
	var user models.User
	if err := c.post(ctx, authPath(tenantCode, productCode, "current-user"), nil, &user, AuthFailure); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any, kind FailureKind) error {
	return c.send(ctx, http.MethodPost, path, body, out, kind)
}

// send performs one request and unwraps the {"data": ...} envelope into out.
// kind is the failure classification for non-auth HTTP errors; 401/403 always
// classify as AuthFailure.
func (c *Client) send(ctx context.Context, method, path string, body, out any, kind FailureKind) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newError(kind, 0, "encoding request", err)
		}
		reader = bytes.NewReader(encoded)
	} else if method != http.MethodDelete {
		reader = strings.NewReader("{}")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return newError(NetworkFailure, 0, "building request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return newError(NetworkFailure, 0, "", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return newError(NetworkFailure, resp.StatusCode, "reading response", err)
	}

	if resp.StatusCode >= 400 {
		failKind := kind
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			failKind = AuthFailure
		}
		message := serverMessage(payload)
		c.logger.Warn("backend rejected request",
			zap.String("path", path), zap.Int("status", resp.StatusCode), zap.String("message", message))
		return newError(failKind, resp.StatusCode, message, nil)
	}

	if out == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return newError(kind, resp.StatusCode, "malformed envelope", err)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return newError(kind, resp.StatusCode, "empty response data", nil)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return newError(kind, resp.StatusCode, "decoding response data", err)
	}
	return nil
}

// serverMessage pulls a human-readable message out of an error body.
func serverMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
