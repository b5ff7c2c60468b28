package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driftwatch/driftwatch/internal/models"
)

// CreateExport handles POST /v1/export
// Runs a detection request and persists the result as a compressed
// export file, returning the file metadata
func (h *Handler) CreateExport(c *fiber.Ctx) error {
	var req models.DetectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "invalid request body: " + err.Error(),
			},
		})
	}

	result, err := h.detectService.Execute(c.Context(), &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	resp, err := h.exportService.Export(result)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetExport handles GET /v1/export/:request_id
// Returns the stored detection result as JSON
func (h *Handler) GetExport(c *fiber.Ctx) error {
	requestID := c.Params("request_id")
	if requestID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "request_id is required",
			},
		})
	}

	data, err := h.exportService.Open(requestID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", "attachment; filename=\""+requestID+".json\"")
	return c.Send(data)
}
