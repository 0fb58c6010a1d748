package restapi

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/pondzashi/SuiPort/internal/app/port"
	"github.com/pondzashi/SuiPort/internal/domain/entity"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/report"
	"github.com/pondzashi/SuiPort/internal/infrastructure/snapshotstore"
)

// APISnapshotResponse is the envelope for snapshot endpoints.
type APISnapshotResponse struct {
	Data struct {
		Snapshot *entity.PortfolioSnapshot `json:"snapshot"`
	} `json:"data"`
	StatusMessage string `json:"status_message"`
}

// SnapshotHandler serves the persisted valuation artifacts and can trigger a
// fresh run on demand.
type SnapshotHandler struct {
	valuationSvc port.ValuationService
	cfg          *configloader.Config
	logger       port.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(vs port.ValuationService, cfg *configloader.Config, l port.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		valuationSvc: vs,
		cfg:          cfg,
		logger:       l,
	}
}

// GetSnapshotHandler returns the most recent persisted snapshot.
func (h *SnapshotHandler) GetSnapshotHandler(c *gin.Context) {
	snap, err := snapshotstore.LoadLatest(h.cfg.Run.OutDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"status_message": "No snapshot yet. Run a valuation first."})
			return
		}
		h.logger.Error("Failed to load latest snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status_message": "Failed to load latest snapshot."})
		return
	}

	response := APISnapshotResponse{StatusMessage: "Snapshot retrieved successfully."}
	response.Data.Snapshot = snap
	c.JSON(http.StatusOK, response)
}

// RunSnapshotHandler triggers a fresh valuation run over the configured
// address list, persists the result and returns it.
func (h *SnapshotHandler) RunSnapshotHandler(c *gin.Context) {
	ctx := c.Request.Context()

	snap, err := h.valuationSvc.BuildSnapshot(ctx, h.cfg.Run.Addresses)
	if err != nil {
		h.logger.Error("Valuation run failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status_message": err.Error()})
		return
	}

	if err := snapshotstore.SaveLatest(h.cfg.Run.OutDir, snap); err != nil {
		h.logger.Error("Failed to persist snapshot", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status_message": "Valuation succeeded but persisting the snapshot failed."})
		return
	}

	response := APISnapshotResponse{StatusMessage: "Snapshot created successfully."}
	response.Data.Snapshot = snap

	partial := false
	for _, acc := range snap.Accounts {
		if len(acc.FetchErrors) > 0 {
			partial = true
			break
		}
	}
	if partial {
		response.StatusMessage = "Snapshot created. Some addresses or coins encountered errors."
	}

	c.JSON(http.StatusOK, response)
}

// GetReportHandler renders the latest snapshot as a Markdown summary.
func (h *SnapshotHandler) GetReportHandler(c *gin.Context) {
	snap, err := snapshotstore.LoadLatest(h.cfg.Run.OutDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.String(http.StatusNotFound, "No snapshot yet. Run a valuation first.\n")
			return
		}
		h.logger.Error("Failed to load latest snapshot", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load latest snapshot.\n")
		return
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(snap)))
}

// GetDashboardHandler renders the latest snapshot as an HTML chart page.
func (h *SnapshotHandler) GetDashboardHandler(c *gin.Context) {
	snap, err := snapshotstore.LoadLatest(h.cfg.Run.OutDir)
	if err != nil {
		if os.IsNotExist(err) {
			c.String(http.StatusNotFound, "No snapshot yet. Run a valuation first.\n")
			return
		}
		h.logger.Error("Failed to load latest snapshot", "error", err)
		c.String(http.StatusInternalServerError, "Failed to load latest snapshot.\n")
		return
	}

	page, err := report.Dashboard(snap)
	if err != nil {
		h.logger.Error("Failed to render dashboard", "error", err)
		c.String(http.StatusInternalServerError, "Failed to render dashboard.\n")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
