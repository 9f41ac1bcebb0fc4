package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/luminamkt/agencyhub/pkg/metrics"
)

const maxErrorBody = 512

// Filter is one [field, operator, value] predicate. Filters on the same
// request are conjunctive.
type Filter struct {
	Field string
	Op    string
	Value any
}

// MarshalJSON renders the filter as the array-of-three the remote store
// expects: ["customer", "=", "ACME"].
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]any{f.Field, f.Op, f.Value})
}

// Eq is shorthand for an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "=", Value: value}
}

// ListOptions controls field projection, filtering and ordering of List
type ListOptions struct {
	Filters []Filter
	Fields  []string
	OrderBy string
	Limit   int
}

// Client performs authenticated CRUD against named remote collections
// (ERPNext doctypes) at <base>/api/resource/<Doctype>[/<name>].
type Client struct {
	baseURL    string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient creates a new gateway client. An empty baseURL yields a
// client whose every call returns ErrNotConfigured, so callers can take
// the local fallback path without special-casing configuration.
func NewClient(baseURL, apiKey, apiSecret string, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		metrics: m,
	}
}

// Configured reports whether the client has a credential pair to use
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != "" && c.apiSecret != ""
}

// List fetches documents from a collection. The returned RawMessages are
// decoded by the caller into its own entity types.
func (c *Client) List(ctx context.Context, doctype string, opts ListOptions) ([]json.RawMessage, error) {
	q := url.Values{}
	if len(opts.Filters) > 0 {
		filters, err := json.Marshal(opts.Filters)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		q.Set("filters", string(filters))
	}
	if len(opts.Fields) > 0 {
		fields, err := json.Marshal(opts.Fields)
		if err != nil {
			return nil, &DecodeError{Err: err}
		}
		q.Set("fields", string(fields))
	}
	if opts.OrderBy != "" {
		q.Set("order_by", opts.OrderBy)
	}
	if opts.Limit > 0 {
		q.Set("limit_page_length", strconv.Itoa(opts.Limit))
	} else {
		// ERPNext defaults to 20 rows; 0 means no cap
		q.Set("limit_page_length", "0")
	}

	var out struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.resourceURL(doctype, "")+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get fetches a single document by id. A missing document yields
// ErrNotFound, not a generic failure.
func (c *Client) Get(ctx context.Context, doctype, id string) (json.RawMessage, error) {
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, c.resourceURL(doctype, id), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Create inserts a document and returns the remote-assigned id
func (c *Client) Create(ctx context.Context, doctype string, fields any) (string, error) {
	var out struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, c.resourceURL(doctype, ""), fields, &out); err != nil {
		return "", err
	}
	if out.Data.Name == "" {
		return "", &DecodeError{Err: fmt.Errorf("create response missing document name")}
	}
	return out.Data.Name, nil
}

// Update applies a partial field update to a document
func (c *Client) Update(ctx context.Context, doctype, id string, fields any) error {
	return c.do(ctx, http.MethodPut, c.resourceURL(doctype, id), fields, nil)
}

// Delete removes a document
func (c *Client) Delete(ctx context.Context, doctype, id string) error {
	return c.do(ctx, http.MethodDelete, c.resourceURL(doctype, id), nil, nil)
}

func (c *Client) resourceURL(doctype, id string) string {
	u := c.baseURL + "/api/resource/" + url.PathEscape(doctype)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// do runs one authenticated request and normalizes every outcome into
// the gateway's error taxonomy.
func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &DecodeError{Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "token "+c.apiKey+":"+c.apiSecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, "transport_error")
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, "transport_error")
		return &TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		c.observe(method, "not_found")
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(method, "remote_error")
		return &RemoteError{StatusCode: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.observe(method, "decode_error")
			return &DecodeError{Err: err}
		}
	}

	c.observe(method, "ok")
	return nil
}

func (c *Client) observe(method, outcome string) {
	if c.metrics != nil {
		c.metrics.ERPRequestsTotal.WithLabelValues(method, outcome).Inc()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
