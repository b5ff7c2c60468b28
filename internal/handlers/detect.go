package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/driftwatch/driftwatch/internal/detector"
	"github.com/driftwatch/driftwatch/internal/models"
	"github.com/driftwatch/driftwatch/internal/services"
)

// Detect handles POST /v1/detect
// Runs a detection request and returns scores and anomalies
func (h *Handler) Detect(c *fiber.Ctx) error {
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

	return c.JSON(toDetectResponse(result))
}

// ListAlgorithms handles GET /v1/algorithms
// Returns the registered algorithm names
func (h *Handler) ListAlgorithms(c *fiber.Ctx) error {
	return c.JSON(models.AlgorithmListResponse{
		Algorithms: detector.List(),
	})
}

// toDetectResponse converts a detection result to its wire form
func toDetectResponse(result *services.DetectionResult) *models.DetectResponse {
	anomalies := make([]models.AnomalyResult, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		anomalies = append(anomalies, models.AnomalyResult{
			StartTimestamp: a.StartTimestamp,
			EndTimestamp:   a.EndTimestamp,
			ExactTimestamp: a.ExactTimestamp,
			Score:          a.Score,
		})
	}

	return &models.DetectResponse{
		Metric:    result.Metric,
		Algorithm: result.Algorithm,
		Scores:    result.Scores.Points(),
		Anomalies: anomalies,
		RequestID: result.RequestID,
	}
}

// serviceErrorResponse maps service error codes to HTTP responses
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	svcErr, ok := err.(*services.ServiceError)
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INTERNAL_ERROR",
				Message: err.Error(),
			},
		})
	}

	status := fiber.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeInvalidInput, services.CodeMissingParams:
		status = fiber.StatusBadRequest
	case services.CodeAlgorithmNotFound, services.CodeExportNotFound:
		status = fiber.StatusNotFound
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}
