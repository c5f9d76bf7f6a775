package utils

import (
	"os"

	"gopkg.in/yaml.v3"
)

// PropertyLabels maps each semantic role of a journal entry to the property
// name the target container actually uses. The same role can carry different
// labels across containers (one schema names the score "Resonance (1-5)",
// another plain "Resonance"), so the table is configuration, not literals at
// the call sites.
type PropertyLabels struct {
	Title      string `yaml:"title"`
	Type       string `yaml:"type"`
	Phase      string `yaml:"phase"`
	Status     string `yaml:"status"`
	Compass    string `yaml:"compass"`
	Shadow     string `yaml:"shadow"`
	Resonance  string `yaml:"resonance"`
	Slug       string `yaml:"slug"`
	Artifact   string `yaml:"artifact"`
	Visibility string `yaml:"visibility"`
}

// DefaultLabels matches the original journal container schema.
func DefaultLabels() PropertyLabels {
	return PropertyLabels{
		Title:      "Name",
		Type:       "Type",
		Phase:      "Phase",
		Status:     "Status",
		Compass:    "Compass",
		Shadow:     "Shadow",
		Resonance:  "Resonance (1-5)",
		Slug:       "Slug",
		Artifact:   "Artifacts",
		Visibility: "Visibility",
	}
}

// LoadLabels builds the label table: defaults, overlaid by an optional YAML
// file, overlaid by ANGEL_LABEL_<ROLE> environment variables. An unreadable
// or malformed file is ignored rather than fatal; the defaults still apply.
func LoadLabels(path string) PropertyLabels {
	labels := DefaultLabels()

	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			var file PropertyLabels
			if err := yaml.Unmarshal(data, &file); err == nil {
				labels.merge(file)
			}
		}
	}

	labels.merge(PropertyLabels{
		Title:      os.Getenv("ANGEL_LABEL_TITLE"),
		Type:       os.Getenv("ANGEL_LABEL_TYPE"),
		Phase:      os.Getenv("ANGEL_LABEL_PHASE"),
		Status:     os.Getenv("ANGEL_LABEL_STATUS"),
		Compass:    os.Getenv("ANGEL_LABEL_COMPASS"),
		Shadow:     os.Getenv("ANGEL_LABEL_SHADOW"),
		Resonance:  os.Getenv("ANGEL_LABEL_RESONANCE"),
		Slug:       os.Getenv("ANGEL_LABEL_SLUG"),
		Artifact:   os.Getenv("ANGEL_LABEL_ARTIFACT"),
		Visibility: os.Getenv("ANGEL_LABEL_VISIBILITY"),
	})

	return labels
}

func (l *PropertyLabels) merge(o PropertyLabels) {
	if o.Title != "" {
		l.Title = o.Title
	}
	if o.Type != "" {
		l.Type = o.Type
	}
	if o.Phase != "" {
		l.Phase = o.Phase
	}
	if o.Status != "" {
		l.Status = o.Status
	}
	if o.Compass != "" {
		l.Compass = o.Compass
	}
	if o.Shadow != "" {
		l.Shadow = o.Shadow
	}
	if o.Resonance != "" {
		l.Resonance = o.Resonance
	}
	if o.Slug != "" {
		l.Slug = o.Slug
	}
	if o.Artifact != "" {
		l.Artifact = o.Artifact
	}
	if o.Visibility != "" {
		l.Visibility = o.Visibility
	}
}
