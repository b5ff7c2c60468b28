package handlers

import (
	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/logging"
	"github.com/driftwatch/driftwatch/internal/queue"
	"github.com/driftwatch/driftwatch/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger *logging.Logger
	// Services
	detectService *services.DetectService
	exportService *services.ExportService
}

// New creates a new handler instance
func New(logger *logging.Logger, queuePublisher queue.Publisher, cfg config.Config) *Handler {
	detectService := services.NewDetectService(logger, queuePublisher, cfg.Detect)
	exportService := services.NewExportService(logger, cfg.Export.Dir)

	return &Handler{
		logger:        logger,
		detectService: detectService,
		exportService: exportService,
	}
}
