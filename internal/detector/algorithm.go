// Package detector implements the anomaly detection engine: a
// registry of pluggable scoring algorithms, score denoising, and the
// extraction of ranked anomaly intervals from a score series.
package detector

import (
	"sort"

	"github.com/driftwatch/driftwatch/internal/timeseries"
	"github.com/driftwatch/driftwatch/internal/utils"
)

// DefaultAlgorithm is the algorithm used when no name or
// implementation is supplied.
const DefaultAlgorithm = "default_detector"

// Params is an open key/value bag of algorithm parameters. Values are
// coerced to numbers on access, so both decoded JSON numbers and
// native Go numeric types work.
type Params map[string]interface{}

// Float returns the parameter as a float64 and whether it is present
// and numeric.
func (p Params) Float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	return utils.ToFloat64(v)
}

// FloatOr returns the parameter as a float64, or def when absent or
// non-numeric.
func (p Params) FloatOr(key string, def float64) float64 {
	if f, ok := p.Float(key); ok {
		return f
	}
	return def
}

// Has reports whether the parameter is present.
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Algorithm is the capability every scoring strategy implements: given
// the primary series, an optional baseline and a validated parameter
// set, produce a raw anomaly-score series over the identical timestamp
// domain. Higher scores mean more anomalous.
type Algorithm interface {
	// Name returns the algorithm name
	Name() string

	// RequiredParams returns the parameter names that must be present
	// in the merged parameter set
	RequiredParams() []string

	// RequiresBaseline reports whether the algorithm needs a baseline
	// series to score against
	RequiresBaseline() bool

	// Score computes a raw per-timestamp anomaly score series
	Score(series, baseline *timeseries.TimeSeries, params Params) (*timeseries.TimeSeries, error)
}

// Registry holds available scoring algorithms
var algorithmRegistry = make(map[string]Algorithm)

// Register adds an algorithm to the registry
func Register(name string, algorithm Algorithm) {
	algorithmRegistry[name] = algorithm
}

// Get returns an algorithm by name
func Get(name string) (Algorithm, error) {
	if algorithm, ok := algorithmRegistry[name]; ok {
		return algorithm, nil
	}
	return nil, &AlgorithmNotFoundError{Name: name}
}

// List returns the sorted names of all registered algorithms
func List() []string {
	names := make([]string, 0, len(algorithmRegistry))
	for name := range algorithmRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// coerceParams validates that the caller-supplied parameter set is a
// mapping and normalizes it to Params. A nil value is an empty set;
// any non-mapping value is rejected before scoring starts.
func coerceParams(raw interface{}) (Params, error) {
	switch v := raw.(type) {
	case nil:
		return Params{}, nil
	case Params:
		return v, nil
	case map[string]interface{}:
		return Params(v), nil
	case map[string]float64:
		p := make(Params, len(v))
		for k, val := range v {
			p[k] = val
		}
		return p, nil
	case map[string]int:
		p := make(Params, len(v))
		for k, val := range v {
			p[k] = val
		}
		return p, nil
	default:
		return nil, invalidInputf("algorithm params must be a mapping, got %T", raw)
	}
}
