package journal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"angelbridge/internal/notion"
	"angelbridge/pkg/models"
	"angelbridge/pkg/utils"
)

// maxListedBlocks caps how many blocks a read path will walk per page.
const maxListedBlocks = 50

// defaultListLimit is the top-N size for pulse and fetch_recent.
const defaultListLimit = 5

// Handler serves the /journal endpoints. Each request is one
// resolve -> map/segment -> remote-call -> extract pass; the handler keeps no
// state between requests beyond its configuration.
type Handler struct {
	Client     *notion.Client
	DatabaseID string
	Labels     utils.PropertyLabels
	Log        *zap.Logger
}

func NewHandler(client *notion.Client, databaseID string, labels utils.PropertyLabels, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Client: client, DatabaseID: databaseID, Labels: labels, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/append", h.append)
	rg.POST("/append", h.append)
	rg.GET("/log", h.log)
	rg.POST("/log", h.log)
	rg.POST("/add_content", h.addContent)
	rg.POST("/seed_covenant", h.seedCovenant)
	rg.GET("/search", h.search)
	rg.GET("/pulse", h.pulse)
	rg.POST("/update", h.update)
	rg.POST("/whisper", h.whisper)
	rg.GET("/fetch_recent", h.fetchRecent)
	rg.GET("/fetch_all", h.fetchAll)
	rg.GET("/fetch_page", h.fetchPage)
}

// append creates one entry from the request fields, segmenting free-text
// content into body blocks on the same create call.
func (h *Handler) append(c *gin.Context) {
	h.createEntry(c, parseEntry(c), nil, false)
}

// log is append with fixed defaults for quick captures. Defaults only apply
// to fields the request leaves empty.
func (h *Handler) log(c *gin.Context) {
	e := parseEntry(c)
	if e.Type == "" {
		e.Type = "Log"
	}
	if e.Phase == "" {
		e.Phase = "Seedling"
	}
	if e.Status == "" {
		e.Status = "Seed"
	}
	if e.Shadow == nil {
		e.Shadow = models.BoolPtr(false)
	}
	h.createEntry(c, e, nil, false)
}

// whisper creates a hidden entry: shadow is forced true regardless of input,
// and the visibility property is set when the container schema defines one.
func (h *Handler) whisper(c *gin.Context) {
	e := parseEntry(c)
	e.Shadow = models.BoolPtr(true)
	if e.Visibility == "" {
		e.Visibility = "Private"
	}
	h.createEntry(c, e, nil, true)
}

// seedCovenant creates a page carrying the fixed covenant document. Title,
// slug, resonance and compass are overridable; everything else is ignored.
func (h *Handler) seedCovenant(c *gin.Context) {
	in := parseEntry(c)
	e := models.JournalEntry{
		Title:     in.Title,
		Slug:      in.Slug,
		Resonance: in.Resonance,
		Compass:   in.Compass,
	}
	if e.Title == "" {
		e.Title = "The Covenant"
	}
	h.createEntry(c, e, notion.CovenantDocument(), false)
}

// createEntry is the shared create path: resolve the container fresh, map
// properties, optionally segment content, one create call.
func (h *Handler) createEntry(c *gin.Context, e models.JournalEntry, children []notion.Block, withSchema bool) {
	if e.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	ctx := c.Request.Context()

	ct, err := h.Client.ResolveContainer(ctx, h.DatabaseID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	var schema notion.Schema
	if withSchema {
		schema, err = h.Client.ContainerSchema(ctx, ct)
		if err != nil {
			// The visibility capability probe is best-effort; the entry is
			// still created without it.
			h.Log.Warn("schema fetch failed, skipping visibility", zap.Error(err))
			schema = nil
		}
	}

	props := notion.BuildProperties(h.Labels, e, schema)
	if children == nil && e.Content != "" {
		children = notion.SegmentText(e.Content)
	}

	page, err := h.Client.CreatePage(ctx, ct.CreateParent(), props, children)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "page_id": page.ID, "url": page.URL})
}

// addContent appends segmented text blocks to an existing page.
func (h *Handler) addContent(c *gin.Context) {
	var req struct {
		PageID string `json:"page_id"`
		Text   string `json:"text"`
	}
	decodeBody(c, &req)
	if req.PageID == "" {
		req.PageID = c.Query("page_id")
	}
	if req.Text == "" {
		req.Text = c.Query("text")
	}
	if req.PageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id is required"})
		return
	}
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	blocks := notion.SegmentText(req.Text)
	if err := h.Client.AppendBlocks(c.Request.Context(), req.PageID, blocks); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "blocks_added": len(blocks)})
}

// update patches raw properties onto an existing page, passed through to the
// remote without local schema validation.
func (h *Handler) update(c *gin.Context) {
	var req struct {
		PageID     string         `json:"page_id"`
		Properties map[string]any `json:"properties"`
	}
	decodeBody(c, &req)
	if req.PageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id is required"})
		return
	}
	if len(req.Properties) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "properties is required"})
		return
	}

	page, err := h.Client.UpdatePage(c.Request.Context(), req.PageID, req.Properties)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "page_id": page.ID, "url": page.URL})
}

// search runs a keyword search over page objects and returns id/title/url.
func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	pages, err := h.Client.SearchAll(c.Request.Context(), q)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	results := make([]gin.H, 0, len(pages))
	for i := range pages {
		rec := notion.ExtractRecord(&pages[i])
		results = append(results, gin.H{"id": rec.ID, "title": rec.Title, "url": rec.URL})
	}
	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

// pulse returns the top-N entries by the numeric score property.
func (h *Handler) pulse(c *gin.Context) {
	limit := parseInt(c.Query("limit"), defaultListLimit)
	ctx := c.Request.Context()

	ct, err := h.Client.ResolveContainer(ctx, h.DatabaseID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	pages, err := h.Client.QueryOnce(ctx, ct, map[string]any{
		"sorts":     []map[string]any{{"property": h.Labels.Resonance, "direction": "descending"}},
		"page_size": limit,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(pages), "results": extractRecords(pages)})
}

// fetchRecent returns the most recently edited N entries.
func (h *Handler) fetchRecent(c *gin.Context) {
	limit := parseInt(c.Query("limit"), defaultListLimit)
	includeBlocks := parseBool(c.Query("include_blocks"))
	ctx := c.Request.Context()

	ct, err := h.Client.ResolveContainer(ctx, h.DatabaseID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	pages, err := h.Client.QueryOnce(ctx, ct, map[string]any{
		"sorts":     []map[string]any{{"timestamp": "last_edited_time", "direction": "descending"}},
		"page_size": limit,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	records, err := h.recordsWithBlocks(ctx, pages, includeBlocks)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(records), "results": records})
}

// fetchAll walks the full listing, with optional filters on the last-edited
// lower bound and equality on the type and status choice fields.
func (h *Handler) fetchAll(c *gin.Context) {
	ctx := c.Request.Context()

	ct, err := h.Client.ResolveContainer(ctx, h.DatabaseID)
	if err != nil {
		h.respondErr(c, err)
		return
	}

	body := map[string]any{}
	var filters []map[string]any
	if v := c.Query("edited_after"); v != "" {
		filters = append(filters, map[string]any{
			"timestamp":        "last_edited_time",
			"last_edited_time": map[string]any{"on_or_after": v},
		})
	}
	if v := c.Query("type"); v != "" {
		filters = append(filters, map[string]any{
			"property": h.Labels.Type,
			"select":   map[string]any{"equals": v},
		})
	}
	if v := c.Query("status"); v != "" {
		filters = append(filters, map[string]any{
			"property": h.Labels.Status,
			"select":   map[string]any{"equals": v},
		})
	}
	switch len(filters) {
	case 0:
	case 1:
		body["filter"] = filters[0]
	default:
		body["filter"] = map[string]any{"and": filters}
	}

	pages, err := h.Client.QueryAll(ctx, ct, body)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(pages), "results": extractRecords(pages)})
}

// fetchPage returns a single entry by id.
func (h *Handler) fetchPage(c *gin.Context) {
	pageID := c.Query("page_id")
	if pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id is required"})
		return
	}
	ctx := c.Request.Context()

	page, err := h.Client.GetPage(ctx, pageID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	rec := notion.ExtractRecord(page)
	if parseBool(c.Query("include_blocks")) {
		blocks, err := h.Client.ListBlocks(ctx, page.ID, maxListedBlocks)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		rec.Blocks = blocks
	}
	c.JSON(http.StatusOK, rec)
}

func extractRecords(pages []notion.Page) []models.PageRecord {
	records := make([]models.PageRecord, 0, len(pages))
	for i := range pages {
		records = append(records, notion.ExtractRecord(&pages[i]))
	}
	return records
}

// recordsWithBlocks extracts records and, when asked, walks each page's
// blocks sequentially (one capped walk per page, no fan-out).
func (h *Handler) recordsWithBlocks(ctx context.Context, pages []notion.Page, includeBlocks bool) ([]models.PageRecord, error) {
	records := make([]models.PageRecord, 0, len(pages))
	for i := range pages {
		rec := notion.ExtractRecord(&pages[i])
		if includeBlocks {
			blocks, err := h.Client.ListBlocks(ctx, rec.ID, maxListedBlocks)
			if err != nil {
				return nil, err
			}
			rec.Blocks = blocks
		}
		records = append(records, rec)
	}
	return records, nil
}

// respondErr maps the error taxonomy onto responses: a remote rejection goes
// back with its original status and body verbatim, anything else is a 502.
func (h *Handler) respondErr(c *gin.Context, err error) {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		var detail json.RawMessage
		if json.Valid([]byte(apiErr.Body)) {
			detail = json.RawMessage(apiErr.Body)
		} else {
			detail, _ = json.Marshal(apiErr.Body)
		}
		c.JSON(apiErr.Status, gin.H{"error": "remote rejected request", "detail": detail})
		return
	}
	h.Log.Error("remote call failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
