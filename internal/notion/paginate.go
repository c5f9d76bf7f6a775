package notion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// pageFetch returns one page of results for a cursor ("" for the first call),
// plus the next cursor and whether more pages remain. The remote must advance
// the cursor when it reports more pages; this layer assumes forward progress.
type pageFetch[T any] func(ctx context.Context, cursor string) ([]T, string, bool, error)

// collectAll walks a cursor-paginated listing to exhaustion, accumulating
// items in remote-returned order.
func collectAll[T any](ctx context.Context, fetch pageFetch[T]) ([]T, error) {
	return collectCapped(ctx, 0, fetch)
}

// collectCapped walks like collectAll but stops early once the accumulated
// item count reaches limit (limit <= 0 means uncapped). Items past the limit
// on the final page are dropped.
func collectCapped[T any](ctx context.Context, limit int, fetch pageFetch[T]) ([]T, error) {
	var items []T
	cursor := ""
	for {
		batch, next, more, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
		if limit > 0 && len(items) >= limit {
			return items[:limit], nil
		}
		if !more {
			return items, nil
		}
		cursor = next
	}
}

// QueryAll runs a container query across every page of results. The body is
// the raw query payload (filter, sorts, page_size); the walker threads the
// continuation cursor through it.
func (c *Client) QueryAll(ctx context.Context, ct *Container, body map[string]any) ([]Page, error) {
	return collectAll(ctx, func(ctx context.Context, cursor string) ([]Page, string, bool, error) {
		payload := make(map[string]any, len(body)+1)
		for k, v := range body {
			payload[k] = v
		}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}
		var res queryResult
		if err := c.do(ctx, http.MethodPost, ct.queryPath(), payload, &res); err != nil {
			return nil, "", false, err
		}
		return res.Results, res.NextCursor, res.HasMore, nil
	})
}

// QueryOnce runs a single-page container query, for top-N reads where the
// first page is the answer.
func (c *Client) QueryOnce(ctx context.Context, ct *Container, body map[string]any) ([]Page, error) {
	var res queryResult
	if err := c.do(ctx, http.MethodPost, ct.queryPath(), body, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// SearchAll walks a keyword search restricted to page objects.
func (c *Client) SearchAll(ctx context.Context, query string) ([]Page, error) {
	return collectAll(ctx, func(ctx context.Context, cursor string) ([]Page, string, bool, error) {
		payload := map[string]any{
			"query":  query,
			"filter": map[string]any{"value": "page", "property": "object"},
		}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}
		var res queryResult
		if err := c.do(ctx, http.MethodPost, "/v1/search", payload, &res); err != nil {
			return nil, "", false, err
		}
		return res.Results, res.NextCursor, res.HasMore, nil
	})
}

// ListBlocks walks a page's block children up to maxBlocks items.
func (c *Client) ListBlocks(ctx context.Context, blockID string, maxBlocks int) ([]json.RawMessage, error) {
	return collectCapped(ctx, maxBlocks, func(ctx context.Context, cursor string) ([]json.RawMessage, string, bool, error) {
		path := "/v1/blocks/" + blockID + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var res blockList
		if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
			return nil, "", false, err
		}
		return res.Results, res.NextCursor, res.HasMore, nil
	})
}
