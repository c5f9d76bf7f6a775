package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// APIVersion is the remote API generation this client speaks. The multi-source
// container model (data sources) only exists from this version on.
const APIVersion = "2025-09-03"

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.notion.com"

// APIError carries a non-success remote response verbatim. No local recovery
// or retry happens anywhere; the status and body travel back to the caller
// untouched.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: status %d: %s", e.Status, e.Body)
}

// Client is a thin wrapper over the remote HTTP API. It holds no state
// beyond the credential and transport; every call is one round trip.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a Client. baseURL is the API origin without a trailing
// slash; pass DefaultBaseURL outside of tests.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// do issues one request and decodes the JSON response into out (which may be
// nil when the body is irrelevant). Any status >= 400 becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("notion: marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		c.log.Warn("remote rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}

// RichText is the fragment shape shared by titles and rich-text properties.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// DataSource is one sub-container of a modern multi-source database.
type DataSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PropertyMeta describes one schema property: its label maps to a kind.
type PropertyMeta struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Database is the container metadata response.
type Database struct {
	Object      string                  `json:"object"`
	ID          string                  `json:"id"`
	Title       []RichText              `json:"title"`
	DataSources []DataSource            `json:"data_sources"`
	Properties  map[string]PropertyMeta `json:"properties"`
}

// Page is one remote record. Properties stay raw; only the title is ever
// interpreted locally.
type Page struct {
	Object         string                     `json:"object"`
	ID             string                     `json:"id"`
	URL            string                     `json:"url"`
	LastEditedTime string                     `json:"last_edited_time"`
	Properties     map[string]json.RawMessage `json:"properties"`
}

// queryResult is the paged shape shared by queries and search.
type queryResult struct {
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

// blockList is one page of a block-children listing.
type blockList struct {
	Results    []json.RawMessage `json:"results"`
	NextCursor string            `json:"next_cursor"`
	HasMore    bool              `json:"has_more"`
}

// GetDatabase fetches container metadata.
func (c *Client) GetDatabase(ctx context.Context, id string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+id, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// GetPage fetches one record by id.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	var p Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePage creates a record under the given parent. children may be nil.
func (c *Client) CreatePage(ctx context.Context, parent, properties map[string]any, children []Block) (*Page, error) {
	payload := map[string]any{
		"parent":     parent,
		"properties": properties,
	}
	if len(children) > 0 {
		payload["children"] = children
	}
	var p Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePage patches raw properties onto an existing record.
func (c *Client) UpdatePage(ctx context.Context, id string, properties map[string]any) (*Page, error) {
	var p Page
	err := c.do(ctx, http.MethodPatch, "/v1/pages/"+id, map[string]any{"properties": properties}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AppendBlocks appends content blocks to a page (or block) by id.
func (c *Client) AppendBlocks(ctx context.Context, blockID string, children []Block) error {
	payload := map[string]any{"children": children}
	return c.do(ctx, http.MethodPatch, "/v1/blocks/"+blockID+"/children", payload, nil)
}
