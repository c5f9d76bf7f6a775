package models

// JournalEntry is the normalized, internal form of one journal record as
// supplied by the caller.
//
// Every inbound shape (query parameters, JSON body, CLI flags) is mapped
// into this structure first, then translated to remote properties from it.
// Title is the only required field; Shadow and Resonance are pointers so an
// absent field is distinguishable from an explicit false / zero.
type JournalEntry struct {
	Title       string   `json:"title"`
	Type        string   `json:"type,omitempty"`
	Phase       string   `json:"phase,omitempty"`
	Compass     string   `json:"compass,omitempty"` // comma-separated choice names
	Shadow      *bool    `json:"shadow,omitempty"`
	Resonance   *float64 `json:"resonance,omitempty"`
	Status      string   `json:"status,omitempty"`
	Slug        string   `json:"slug,omitempty"`
	ArtifactURL string   `json:"artifact_url,omitempty"`
	Visibility  string   `json:"visibility,omitempty"`
	Content     string   `json:"content,omitempty"` // free text, segmented into blocks
}

// BoolPtr and FloatPtr build optional-field values for JournalEntry.
func BoolPtr(b bool) *bool { return &b }

func FloatPtr(f float64) *float64 { return &f }
