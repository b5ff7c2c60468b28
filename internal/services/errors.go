// Package services provides the business logic layer between handlers
// and the detection engine. Services encapsulate validation, engine
// orchestration and event publishing.
package services

import (
	"errors"

	"github.com/driftwatch/driftwatch/internal/detector"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// Error codes surfaced by the detection services
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeMissingParams     = "REQUIRED_PARAMETERS_NOT_PASSED"
	CodeAlgorithmNotFound = "ALGORITHM_NOT_FOUND"
	CodeExportFailed      = "EXPORT_FAILED"
	CodeExportNotFound    = "EXPORT_NOT_FOUND"
)

// fromDetectorError maps the engine's error taxonomy onto service
// error codes without losing the original message.
func fromDetectorError(err error) *ServiceError {
	var (
		invalid  *detector.InvalidInputError
		required *detector.RequiredParametersNotPassedError
		notFound *detector.AlgorithmNotFoundError
	)

	switch {
	case errors.As(err, &required):
		return &ServiceError{
			Code:    CodeMissingParams,
			Message: err.Error(),
			Details: map[string]interface{}{
				"algorithm": required.Algorithm,
				"missing":   required.Missing,
			},
		}
	case errors.As(err, &notFound):
		return &ServiceError{
			Code:    CodeAlgorithmNotFound,
			Message: err.Error(),
			Details: map[string]interface{}{"algorithm": notFound.Name},
		}
	case errors.As(err, &invalid):
		return &ServiceError{Code: CodeInvalidInput, Message: err.Error()}
	default:
		return &ServiceError{Code: CodeInvalidInput, Message: err.Error()}
	}
}
