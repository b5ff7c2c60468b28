package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/driftwatch/driftwatch/internal/config"
	"github.com/driftwatch/driftwatch/internal/logging"
	"github.com/driftwatch/driftwatch/internal/models"
)

// createTestHandler creates a properly initialized handler for testing
func createTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := config.Config{
		Detect: config.DetectConfig{Algorithm: "default_detector"},
		Export: config.ExportConfig{Dir: t.TempDir()},
	}
	return New(logging.NewDevelopment(), nil, cfg)
}

func referenceSeriesBody() string {
	return `{
		"metric": "cpu_usage",
		"series": {"values": {"0": 0, "1": 0, "2": 0, "3": 0, "4": 1, "5": 2, "6": 2, "7": 2, "8": 0}},
		"score_threshold": 0
	}`
}

func TestHandler_Detect(t *testing.T) {
	handler := createTestHandler(t)

	app := fiber.New()
	app.Post("/v1/detect", handler.Detect)

	req := httptest.NewRequest("POST", "/v1/detect", bytes.NewBufferString(referenceSeriesBody()))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", fiber.StatusOK, resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var detectResp models.DetectResponse
	if err := json.Unmarshal(body, &detectResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if detectResp.Algorithm != "default_detector" {
		t.Errorf("Expected algorithm 'default_detector', got '%s'", detectResp.Algorithm)
	}
	if detectResp.RequestID == "" {
		t.Error("Expected non-empty request id")
	}
	if len(detectResp.Scores) != 9 {
		t.Errorf("Expected 9 scores, got %d", len(detectResp.Scores))
	}
	if len(detectResp.Anomalies) != 1 {
		t.Errorf("Expected 1 anomaly, got %d", len(detectResp.Anomalies))
	}
}

func TestHandler_Detect_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "malformed_json",
			body:           `{"series":`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_REQUEST",
		},
		{
			name:           "empty_series",
			body:           `{"series": {"values": {}}}`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "unknown_algorithm",
			body:           `{"series": {"values": {"0": 1}}, "algorithm": "no_such_algorithm"}`,
			expectedStatus: fiber.StatusNotFound,
			expectedCode:   "ALGORITHM_NOT_FOUND",
		},
		{
			name:           "missing_required_params",
			body:           `{"series": {"values": {"0": 1}}, "algorithm": "absolute_threshold"}`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "REQUIRED_PARAMETERS_NOT_PASSED",
		},
		{
			name:           "missing_baseline",
			body:           `{"series": {"values": {"0": 1}}, "algorithm": "diff_percent_threshold", "algorithm_params": {"percent_threshold_upper": 20, "percent_threshold_lower": -20}}`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
		{
			name:           "both_thresholds",
			body:           `{"series": {"values": {"0": 1}}, "score_threshold": 1, "score_percentile": 0.9}`,
			expectedStatus: fiber.StatusBadRequest,
			expectedCode:   "INVALID_INPUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t)

			app := fiber.New()
			app.Post("/v1/detect", handler.Detect)

			req := httptest.NewRequest("POST", "/v1/detect", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, 10000)
			if err != nil {
				t.Fatalf("Failed to perform request: %v", err)
			}

			if resp.StatusCode != tt.expectedStatus {
				bodyBytes, _ := io.ReadAll(resp.Body)
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, resp.StatusCode, string(bodyBytes))
				return
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("Failed to read response body: %v", err)
			}

			var errResp models.ErrorResponse
			if err := json.Unmarshal(body, &errResp); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}

			if errResp.Error.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, errResp.Error.Code)
			}
		})
	}
}

func TestHandler_ListAlgorithms(t *testing.T) {
	handler := createTestHandler(t)

	app := fiber.New()
	app.Get("/v1/algorithms", handler.ListAlgorithms)

	req := httptest.NewRequest("GET", "/v1/algorithms", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to perform request: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected status %d, got %d", fiber.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	var listResp models.AlgorithmListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	want := map[string]bool{
		"default_detector":       false,
		"exp_avg_detector":       false,
		"derivative_detector":    false,
		"absolute_threshold":     false,
		"diff_percent_threshold": false,
	}
	for _, name := range listResp.Algorithms {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("Expected algorithm '%s' in listing", name)
		}
	}
}
