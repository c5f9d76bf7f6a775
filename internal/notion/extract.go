package notion

import (
	"encoding/json"

	"angelbridge/pkg/models"
)

// ExtractRecord normalizes a raw remote page into the display shape every
// read path returns. The title is found by property kind, not by label, so
// extraction works against any container schema.
func ExtractRecord(p *Page) models.PageRecord {
	return models.PageRecord{
		ID:         p.ID,
		URL:        p.URL,
		LastEdited: p.LastEditedTime,
		Title:      extractTitle(p.Properties),
		Properties: p.Properties,
	}
}

// extractTitle locates the title-kind property and joins its rich-text run
// fragments in order. Missing or malformed title properties yield "".
func extractTitle(props map[string]json.RawMessage) string {
	for _, raw := range props {
		var pv struct {
			Type  string     `json:"type"`
			Title []RichText `json:"title"`
		}
		if err := json.Unmarshal(raw, &pv); err != nil {
			continue
		}
		if pv.Type == "title" {
			return plainText(pv.Title)
		}
	}
	return ""
}
