package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/driftwatch/driftwatch/internal/compression"
	"github.com/driftwatch/driftwatch/internal/logging"
	"github.com/driftwatch/driftwatch/internal/models"
)

// exportFileSuffix marks export files as snappy-compressed JSON
const exportFileSuffix = ".json.sz"

// ExportService persists detection results as snappy-compressed JSON
// files so a run can be fetched again or fed into other tooling.
type ExportService struct {
	logger     *logging.Logger
	exportDir  string
	compressor compression.Compressor
}

// NewExportService creates a new ExportService
func NewExportService(logger *logging.Logger, exportDir string) *ExportService {
	return &ExportService{
		logger:     logger,
		exportDir:  exportDir,
		compressor: compression.NewSnappyCompressor(),
	}
}

// exportDocument is the on-disk layout of one exported run
type exportDocument struct {
	Metric    string                 `json:"metric,omitempty"`
	Algorithm string                 `json:"algorithm"`
	RequestID string                 `json:"request_id"`
	Scores    interface{}            `json:"scores"`
	Anomalies []models.AnomalyResult `json:"anomalies"`
}

// Export writes the detection result to the export directory and
// returns the file metadata.
func (s *ExportService) Export(result *DetectionResult) (*models.ExportResponse, error) {
	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to create export dir: %v", err))
	}

	anomalies := make([]models.AnomalyResult, 0, len(result.Anomalies))
	for _, a := range result.Anomalies {
		anomalies = append(anomalies, models.AnomalyResult{
			StartTimestamp: a.StartTimestamp,
			EndTimestamp:   a.EndTimestamp,
			ExactTimestamp: a.ExactTimestamp,
			Score:          a.Score,
		})
	}

	doc := exportDocument{
		Metric:    result.Metric,
		Algorithm: result.Algorithm,
		RequestID: result.RequestID,
		Scores:    result.Scores.Points(),
		Anomalies: anomalies,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to encode export: %v", err))
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to compress export: %v", err))
	}

	filename := result.RequestID + exportFileSuffix
	path := filepath.Join(s.exportDir, filename)
	if err := os.WriteFile(path, compressed, 0644); err != nil {
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to write export: %v", err))
	}

	s.logger.Info("Detection result exported",
		"request_id", result.RequestID,
		"file", filename,
		"raw_bytes", len(data),
		"compressed_bytes", len(compressed))

	return &models.ExportResponse{
		RequestID: result.RequestID,
		File:      filename,
		SizeBytes: len(compressed),
	}, nil
}

// Open reads an exported run back as decompressed JSON.
func (s *ExportService) Open(requestID string) ([]byte, error) {
	// Request IDs are uuids; reject anything that could escape the
	// export directory.
	if requestID == "" || filepath.Base(requestID) != requestID {
		return nil, NewServiceError(CodeInvalidInput, "invalid export request id")
	}

	path := filepath.Join(s.exportDir, requestID+exportFileSuffix)
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewServiceError(CodeExportNotFound, "export not found: "+requestID)
		}
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to read export: %v", err))
	}

	data, err := s.compressor.Decompress(compressed)
	if err != nil {
		return nil, NewServiceError(CodeExportFailed, fmt.Sprintf("failed to decompress export: %v", err))
	}
	return data, nil
}
