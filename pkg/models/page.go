package models

import "encoding/json"

// PageRecord is the display-friendly form of one remote page, produced by
// every read path so callers see the same shape regardless of which
// properties the target container defines.
type PageRecord struct {
	ID         string                     `json:"id"`
	URL        string                     `json:"url,omitempty"`
	LastEdited string                     `json:"last_edited,omitempty"`
	Title      string                     `json:"title"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
	Blocks     []json.RawMessage          `json:"blocks,omitempty"`
}
