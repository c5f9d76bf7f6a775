package notion

import (
	"context"
	"net/http"
	"strings"
)

// AddressMode says how a resolved container is addressed on create and query
// calls: through a data source id (modern multi-source databases) or through
// the database id itself (legacy single-source databases).
type AddressMode string

const (
	ModeDataSource     AddressMode = "data_source"
	ModeLegacyDatabase AddressMode = "legacy_database"
)

// Container is the result of resolving a database id against remote state.
// It is derived fresh per request and threaded through the call chain; it is
// never cached across requests, because a container can migrate from legacy
// to multi-source between calls.
type Container struct {
	Mode        AddressMode
	ID          string // the id used for addressing (data source id or database id)
	DatabaseID  string
	Title       string
	DataSources []DataSource

	// legacyProperties is the schema carried on the database object itself,
	// only populated in legacy mode where no data source can be queried.
	legacyProperties map[string]PropertyMeta
}

// ResolveContainer queries container metadata and picks the addressing mode.
// When the database lists data sources the first one wins, in remote-returned
// order; otherwise the database id itself is the address.
func (c *Client) ResolveContainer(ctx context.Context, databaseID string) (*Container, error) {
	db, err := c.GetDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	ct := &Container{
		DatabaseID:  databaseID,
		Title:       plainText(db.Title),
		DataSources: db.DataSources,
	}
	if len(db.DataSources) > 0 {
		ct.Mode = ModeDataSource
		ct.ID = db.DataSources[0].ID
	} else {
		ct.Mode = ModeLegacyDatabase
		ct.ID = databaseID
		ct.legacyProperties = db.Properties
	}
	return ct, nil
}

// CreateParent is the parent reference for page creation under this container.
func (ct *Container) CreateParent() map[string]any {
	if ct.Mode == ModeDataSource {
		return map[string]any{"type": "data_source_id", "data_source_id": ct.ID}
	}
	return map[string]any{"type": "database_id", "database_id": ct.ID}
}

func (ct *Container) queryPath() string {
	if ct.Mode == ModeDataSource {
		return "/v1/data_sources/" + ct.ID + "/query"
	}
	return "/v1/databases/" + ct.ID + "/query"
}

// Schema is the container's property table: label to property kind.
type Schema map[string]string

// HasSelect reports whether the schema defines label as a single-choice
// property. A nil schema has no capabilities.
func (s Schema) HasSelect(label string) bool {
	return s[label] == "select"
}

// ContainerSchema fetches the property table for a resolved container: from
// the addressed data source in modern mode, or from the database object
// itself in legacy mode (already in hand from resolution, no extra call).
func (c *Client) ContainerSchema(ctx context.Context, ct *Container) (Schema, error) {
	var props map[string]PropertyMeta
	if ct.Mode == ModeDataSource {
		var ds struct {
			Properties map[string]PropertyMeta `json:"properties"`
		}
		if err := c.do(ctx, http.MethodGet, "/v1/data_sources/"+ct.ID, nil, &ds); err != nil {
			return nil, err
		}
		props = ds.Properties
	} else {
		props = ct.legacyProperties
	}

	schema := make(Schema, len(props))
	for label, meta := range props {
		schema[label] = meta.Type
	}
	return schema, nil
}

func plainText(runs []RichText) string {
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		parts = append(parts, r.PlainText)
	}
	return strings.Join(parts, "")
}
