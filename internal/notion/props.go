package notion

import (
	"strings"

	"angelbridge/pkg/models"
	"angelbridge/pkg/utils"
)

// BuildProperties translates the entry fields actually present into the
// remote typed-property shapes, keyed by the configured labels. Absent
// fields are omitted entirely, never set to null or an empty choice.
//
// The visibility field is schema-dependent: it is only emitted when the
// given schema snapshot defines the visibility label as a single-choice
// property. Pass a nil schema to skip it.
func BuildProperties(labels utils.PropertyLabels, e models.JournalEntry, schema Schema) map[string]any {
	props := map[string]any{
		labels.Title: map[string]any{
			"title": []map[string]any{textRun(e.Title)},
		},
	}

	if e.Type != "" {
		props[labels.Type] = selectValue(e.Type)
	}
	if e.Phase != "" {
		props[labels.Phase] = selectValue(e.Phase)
	}
	if e.Status != "" {
		props[labels.Status] = selectValue(e.Status)
	}
	if e.Compass != "" {
		if names := SplitChoices(e.Compass); len(names) > 0 {
			props[labels.Compass] = multiSelectValue(names)
		}
	}
	if e.Shadow != nil {
		props[labels.Shadow] = map[string]any{"checkbox": *e.Shadow}
	}
	if e.Resonance != nil {
		props[labels.Resonance] = map[string]any{"number": *e.Resonance}
	}
	if e.Slug != "" {
		props[labels.Slug] = map[string]any{
			"rich_text": []map[string]any{textRun(e.Slug)},
		}
	}
	if e.ArtifactURL != "" {
		props[labels.Artifact] = map[string]any{
			"files": []map[string]any{{
				"name":     attachmentName(e.ArtifactURL),
				"external": map[string]any{"url": e.ArtifactURL},
			}},
		}
	}
	if e.Visibility != "" && schema.HasSelect(labels.Visibility) {
		props[labels.Visibility] = selectValue(e.Visibility)
	}

	return props
}

// SplitChoices parses a comma-separated choice list: trim whitespace, drop
// empty segments, preserve order.
func SplitChoices(s string) []string {
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			names = append(names, t)
		}
	}
	return names
}

func textRun(content string) map[string]any {
	return map[string]any{"text": map[string]any{"content": content}}
}

func selectValue(name string) map[string]any {
	return map[string]any{"select": map[string]any{"name": name}}
}

func multiSelectValue(names []string) map[string]any {
	choices := make([]map[string]any, 0, len(names))
	for _, n := range names {
		choices = append(choices, map[string]any{"name": n})
	}
	return map[string]any{"multi_select": choices}
}

// attachmentName derives a display name from the final path segment of the
// URL, falling back to a fixed placeholder when that segment is empty.
func attachmentName(url string) string {
	name := url[strings.LastIndex(url, "/")+1:]
	if name == "" {
		return "attachment"
	}
	return name
}
