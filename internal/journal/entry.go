package journal

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"angelbridge/pkg/models"
)

// entryBody is the JSON body shape for entry-creating endpoints. Every field
// is a pointer so a present-but-false value still overrides the query.
type entryBody struct {
	Text        *string  `json:"text"`
	Type        *string  `json:"type"`
	Phase       *string  `json:"phase"`
	Compass     *string  `json:"compass"`
	Shadow      *bool    `json:"shadow"`
	Resonance   *float64 `json:"resonance"`
	Status      *string  `json:"status"`
	Slug        *string  `json:"slug"`
	ArtifactURL *string  `json:"artifact_url"`
	Visibility  *string  `json:"visibility"`
	Content     *string  `json:"content"`
}

// parseEntry builds a JournalEntry from query parameters, then lets a JSON
// body (when one is sent) override field by field.
func parseEntry(c *gin.Context) models.JournalEntry {
	e := models.JournalEntry{
		Title:       c.Query("text"),
		Type:        c.Query("type"),
		Phase:       c.Query("phase"),
		Compass:     c.Query("compass"),
		Status:      c.Query("status"),
		Slug:        c.Query("slug"),
		ArtifactURL: c.Query("artifact_url"),
		Visibility:  c.Query("visibility"),
		Content:     c.Query("content"),
	}
	if v, ok := c.GetQuery("shadow"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			e.Shadow = models.BoolPtr(b)
		}
	}
	if v, ok := c.GetQuery("resonance"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			e.Resonance = models.FloatPtr(f)
		}
	}

	var body entryBody
	if decodeBody(c, &body) {
		if body.Text != nil {
			e.Title = *body.Text
		}
		if body.Type != nil {
			e.Type = *body.Type
		}
		if body.Phase != nil {
			e.Phase = *body.Phase
		}
		if body.Compass != nil {
			e.Compass = *body.Compass
		}
		if body.Shadow != nil {
			e.Shadow = body.Shadow
		}
		if body.Resonance != nil {
			e.Resonance = body.Resonance
		}
		if body.Status != nil {
			e.Status = *body.Status
		}
		if body.Slug != nil {
			e.Slug = *body.Slug
		}
		if body.ArtifactURL != nil {
			e.ArtifactURL = *body.ArtifactURL
		}
		if body.Visibility != nil {
			e.Visibility = *body.Visibility
		}
		if body.Content != nil {
			e.Content = *body.Content
		}
	}
	return e
}

// decodeBody decodes a JSON request body into out. Returns false when there
// is no body to speak of; malformed JSON is treated the same way, matching
// the query-parameters-only path.
func decodeBody(c *gin.Context, out any) bool {
	if c.Request.Body == nil {
		return false
	}
	data, err := io.ReadAll(c.Request.Body)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		return false
	}
	return json.Unmarshal(data, out) == nil
}
