package debug

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"angelbridge/internal/notion"
	"angelbridge/pkg/utils"
)

// Handler serves configuration and container introspection. It never
// pre-validates configuration; a bad token or database id shows up as the
// remote's own rejection.
type Handler struct {
	Client *notion.Client
	Cfg    utils.Config
}

func NewHandler(client *notion.Client, cfg utils.Config) *Handler {
	return &Handler{Client: client, Cfg: cfg}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, mw ...gin.HandlerFunc) {
	dbg := r.Group("/debug", mw...)
	dbg.GET("/env", h.env)
	dbg.GET("/schema", h.schema)
	r.GET("/probe/db", append(mw, h.probeDB)...)
}

// env reports configuration presence without revealing the credential.
func (h *Handler) env(c *gin.Context) {
	tail := ""
	if n := len(h.Cfg.Token); n >= 4 {
		tail = h.Cfg.Token[n-4:]
	}
	c.JSON(http.StatusOK, gin.H{
		"token_present":  h.Cfg.Token != "",
		"token_len":      len(h.Cfg.Token),
		"token_tail":     tail,
		"db_present":     h.Cfg.DatabaseID != "",
		"db_len":         len(h.Cfg.DatabaseID),
		"db_value":       h.Cfg.DatabaseID,
		"notion_version": notion.APIVersion,
	})
}

// probeDB resolves the container and reports its addressing.
func (h *Handler) probeDB(c *gin.Context) {
	ct, err := h.Client.ResolveContainer(c.Request.Context(), h.Cfg.DatabaseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"object":       "database",
		"id":           ct.DatabaseID,
		"title_plain":  ct.Title,
		"mode":         ct.Mode,
		"address_id":   ct.ID,
		"data_sources": ct.DataSources,
	})
}

// schema reports the property label -> kind table of the resolved container.
func (h *Handler) schema(c *gin.Context) {
	ctx := c.Request.Context()
	ct, err := h.Client.ResolveContainer(ctx, h.Cfg.DatabaseID)
	if err != nil {
		respondErr(c, err)
		return
	}
	schema, err := h.Client.ContainerSchema(ctx, ct)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, schema)
}

func respondErr(c *gin.Context, err error) {
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
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
