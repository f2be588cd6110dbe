package api

import (
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/insight"
	"inventory-service/internal/ledger"
	"inventory-service/internal/models"
	"inventory-service/internal/report"
	"inventory-service/internal/state"
	"inventory-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	container *state.Container
	insights  *insight.Client
}

// NewHandler creates a new HTTP handler
func NewHandler(container *state.Container, insights *insight.Client) *Handler {
	return &Handler{
		container: container,
		insights:  insights,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/items", h.listItems)
		v1.GET("/items/:id", h.getItem)
		v1.GET("/items/:id/logs", h.getItemLogs)
		v1.POST("/items/:id/adjust", h.adjustStock)
		v1.GET("/items/:id/restock-link", h.getRestockLink)

		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.addCategory)
		v1.PUT("/categories/:name", h.renameCategory)
		v1.DELETE("/categories/:name", h.deleteCategory)

		v1.GET("/logs", h.listLogs)

		v1.POST("/sync", h.syncSheet)
		v1.GET("/status", h.getStatus)
		v1.PUT("/settings", h.updateSettings)

		v1.GET("/report/summary", h.getSummary)
		v1.GET("/report/export", h.exportCSV)

		v1.POST("/insight", h.generateInsight)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type itemView struct {
	models.InventoryItem
	Status models.StockStatus `json:"status"`
}

// listItems returns the item collection with stock status attached
func (h *Handler) listItems(c *gin.Context) {
	items := h.container.Items()
	views := make([]itemView, len(items))
	for i, item := range items {
		views[i] = itemView{InventoryItem: item, Status: ledger.Status(item)}
	}
	c.JSON(http.StatusOK, gin.H{"items": views})
}

// getItem returns a single item
func (h *Handler) getItem(c *gin.Context) {
	item, ok := h.container.Item(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, itemView{InventoryItem: item, Status: ledger.Status(item)})
}

// getItemLogs returns an item's audit entries, newest first
func (h *Handler) getItemLogs(c *gin.Context) {
	if _, ok := h.container.Item(c.Param("id")); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": h.container.LogsForItem(c.Param("id"))})
}

type adjustRequest struct {
	Delta  int             `json:"delta" binding:"required"`
	Reason string          `json:"reason"`
	Role   models.UserRole `json:"role" binding:"required"`
}

// adjustStock applies a signed quantity delta through the ledger
func (h *Handler) adjustStock(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Role != models.RoleManager && req.Role != models.RoleWarehouse {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}
	if req.Reason == "" {
		req.Reason = "Pembaruan Stok"
	}

	adj, err := h.container.Adjust(c.Request.Context(), c.Param("id"), req.Delta, req.Reason, req.Role)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to adjust stock",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item":  itemView{InventoryItem: adj.Item, Status: ledger.Status(adj.Item)},
		"log":   adj.Log,
		"alert": adj.ShouldAlert,
	})
}

// getRestockLink returns a prefilled supplier mail-compose link
func (h *Handler) getRestockLink(c *gin.Context) {
	item, ok := h.container.Item(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	role := models.UserRole(c.DefaultQuery("role", string(models.RoleManager)))
	c.JSON(http.StatusOK, gin.H{"mailto": report.RestockMailto(item, role)})
}

// listCategories returns the category set
func (h *Handler) listCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.container.Categories()})
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// addCategory appends a category
func (h *Handler) addCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	h.container.AddCategory(c.Request.Context(), req.Name)
	c.JSON(http.StatusCreated, gin.H{"categories": h.container.Categories()})
}

// renameCategory renames a category, cascading to items
func (h *Handler) renameCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	h.container.RenameCategory(c.Request.Context(), c.Param("name"), req.Name)
	c.JSON(http.StatusOK, gin.H{"categories": h.container.Categories()})
}

// deleteCategory removes the category entry only; items keep the name
func (h *Handler) deleteCategory(c *gin.Context) {
	h.container.DeleteCategory(c.Request.Context(), c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"categories": h.container.Categories()})
}

// listLogs returns the full audit log
func (h *Handler) listLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": h.container.Logs()})
}

// syncSheet triggers a remote refresh
func (h *Handler) syncSheet(c *gin.Context) {
	if !h.container.CloudLinked() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No sheet URL configured"})
		return
	}

	if err := h.container.Sync(c.Request.Context()); err != nil {
		// prior state is kept; the message is surfaced for display
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Sync failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": len(h.container.Items())})
}

// getStatus reports the data source mode and last sync error
func (h *Handler) getStatus(c *gin.Context) {
	mode := "local"
	if h.container.CloudLinked() {
		mode = "cloud"
	}
	c.JSON(http.StatusOK, gin.H{
		"mode":      mode,
		"lastError": h.container.LastError(),
	})
}

type settingsRequest struct {
	SheetURL  *string `json:"sheetUrl"`
	BridgeURL *string `json:"bridgeUrl"`
}

// updateSettings changes the remote endpoints; setting a sheet URL
// triggers an immediate sync.
func (h *Handler) updateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.BridgeURL != nil {
		h.container.SetBridgeURL(*req.BridgeURL)
	}
	if req.SheetURL != nil {
		if err := h.container.SetSheetURL(c.Request.Context(), *req.SheetURL); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "Sheet URL saved but sync failed",
				"details": err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// getSummary returns dashboard aggregates
func (h *Handler) getSummary(c *gin.Context) {
	c.JSON(http.StatusOK, report.Summarize(h.container.Items()))
}

// exportCSV serves the inventory report as a CSV download
func (h *Handler) exportCSV(c *gin.Context) {
	csv := report.ExportCSV(h.container.Items())
	util.CSVExportsTotal.Inc()

	c.Header("Content-Disposition", `attachment; filename="`+report.ExportFileName(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// generateInsight returns the AI-generated inventory insight
func (h *Handler) generateInsight(c *gin.Context) {
	text := h.insights.Generate(c.Request.Context(), h.container.Items())
	c.JSON(http.StatusOK, gin.H{"insight": text})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
