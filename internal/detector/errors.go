package detector

import (
	"fmt"
	"strings"
)

// InvalidInputError reports malformed construction input, such as a
// parameter set that is not a mapping or an empty primary series.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// RequiredParametersNotPassedError reports that the resolved algorithm
// is missing one or more required parameters.
type RequiredParametersNotPassedError struct {
	Algorithm string
	Missing   []string
}

func (e *RequiredParametersNotPassedError) Error() string {
	return fmt.Sprintf("algorithm %s requires parameters: %s",
		e.Algorithm, strings.Join(e.Missing, ", "))
}

// AlgorithmNotFoundError reports a registry lookup for an unknown
// algorithm name.
type AlgorithmNotFoundError struct {
	Name string
}

func (e *AlgorithmNotFoundError) Error() string {
	return "unknown anomaly detection algorithm: " + e.Name
}

func invalidInputf(format string, args ...interface{}) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
