package detector

import (
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

// Config describes one detection run.
type Config struct {
	// Series is the primary time series to analyze (required)
	Series *timeseries.TimeSeries

	// Baseline is an optional reference series for comparison-style
	// algorithms
	Baseline *timeseries.TimeSeries

	// Algorithm is a caller-supplied implementation. When set it wins
	// over AlgorithmName and the registry is bypassed.
	Algorithm Algorithm

	// AlgorithmName selects a registered algorithm by name. Empty
	// means DefaultAlgorithm.
	AlgorithmName string

	// AlgorithmParams is an open parameter bag for the algorithm. Any
	// non-mapping value is rejected with InvalidInputError.
	AlgorithmParams interface{}

	// ScoreOnly skips anomaly extraction; only scores are computed
	ScoreOnly bool

	// ScoreThreshold is an absolute score threshold. Points must
	// strictly exceed it to be anomalous.
	ScoreThreshold *float64

	// ScorePercentile is a threshold expressed as a percentile
	// (0 < p < 1) of this run's score distribution. Mutually
	// exclusive with ScoreThreshold.
	ScorePercentile *float64
}

// Detector runs one detection pass over a time series and caches the
// results. All validation and computation happen in New; the accessors
// are pure reads and always return the same cached objects.
type Detector struct {
	algorithm Algorithm
	scores    *timeseries.TimeSeries
	anomalies []Anomaly
}

// New validates the configuration, resolves the algorithm, scores the
// series, denoises the scores and extracts anomaly intervals. Every
// input error surfaces here; the returned Detector cannot fail.
func New(cfg Config) (*Detector, error) {
	if cfg.Series.Len() == 0 {
		return nil, invalidInputf("primary series must not be empty")
	}

	params, err := coerceParams(cfg.AlgorithmParams)
	if err != nil {
		return nil, err
	}

	algorithm, err := resolveAlgorithm(cfg)
	if err != nil {
		return nil, err
	}

	if missing := missingParams(algorithm, params); len(missing) > 0 {
		return nil, &RequiredParametersNotPassedError{
			Algorithm: algorithm.Name(),
			Missing:   missing,
		}
	}

	if algorithm.RequiresBaseline() && cfg.Baseline.Len() == 0 {
		return nil, invalidInputf("algorithm %s requires a baseline series", algorithm.Name())
	}

	if cfg.ScoreThreshold != nil && cfg.ScorePercentile != nil {
		return nil, invalidInputf("score_threshold and score_percentile are mutually exclusive")
	}
	if cfg.ScorePercentile != nil {
		if p := *cfg.ScorePercentile; p <= 0 || p >= 1 {
			return nil, invalidInputf("score_percentile must be in (0, 1), got %v", p)
		}
	}

	raw, err := algorithm.Score(cfg.Series, cfg.Baseline, params)
	if err != nil {
		return nil, err
	}
	if raw.Len() != cfg.Series.Len() {
		return nil, invalidInputf("algorithm %s produced %d scores for %d points",
			algorithm.Name(), raw.Len(), cfg.Series.Len())
	}

	d := &Detector{
		algorithm: algorithm,
		scores:    Denoise(raw),
		anomalies: []Anomaly{},
	}

	if !cfg.ScoreOnly {
		d.anomalies = extractAnomalies(d.scores, d.effectiveThreshold(cfg))
	}

	return d, nil
}

// GetAllScores returns the cached denoised score series. It has the
// same length as the primary series and is never nil.
func (d *Detector) GetAllScores() *timeseries.TimeSeries {
	return d.scores
}

// GetAnomalies returns the cached anomaly intervals sorted by score
// descending. The slice is empty, never nil, when nothing crossed the
// threshold or the run was score-only.
func (d *Detector) GetAnomalies() []Anomaly {
	return d.anomalies
}

// AlgorithmName returns the name of the algorithm that produced the
// cached results.
func (d *Detector) AlgorithmName() string {
	return d.algorithm.Name()
}

// resolveAlgorithm picks exactly one resolution path: explicit
// implementation, else explicit name, else the default name.
func resolveAlgorithm(cfg Config) (Algorithm, error) {
	if cfg.Algorithm != nil {
		return cfg.Algorithm, nil
	}
	name := cfg.AlgorithmName
	if name == "" {
		name = DefaultAlgorithm
	}
	return Get(name)
}

// missingParams returns the algorithm's required parameter names that
// are absent from the merged parameter set.
func missingParams(algorithm Algorithm, params Params) []string {
	var missing []string
	for _, name := range algorithm.RequiredParams() {
		if !params.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// effectiveThreshold resolves the threshold policy for this run.
// Default is an absolute threshold of zero: any positive denoised
// score is anomalous.
func (d *Detector) effectiveThreshold(cfg Config) float64 {
	if cfg.ScoreThreshold != nil {
		return *cfg.ScoreThreshold
	}
	if cfg.ScorePercentile != nil {
		return percentileThreshold(d.scores, *cfg.ScorePercentile)
	}
	return 0
}
