package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/driftwatch/driftwatch/internal/detector"
	"github.com/driftwatch/driftwatch/internal/timeseries"
)

func main() {
	// Command line flags
	input := flag.String("input", "", "Input CSV file (timestamp,value per row; - for stdin)")
	baselineFile := flag.String("baseline", "", "Optional baseline CSV file")
	algorithm := flag.String("algorithm", detector.DefaultAlgorithm, "Algorithm name")
	params := flag.String("params", "", "Algorithm parameters as JSON object")
	threshold := flag.Float64("threshold", 0, "Absolute score threshold")
	percentile := flag.Float64("percentile", 0, "Percentile threshold in (0,1); overrides -threshold")
	scoreOnly := flag.Bool("score-only", false, "Print scores without extracting anomalies")
	listAlgorithms := flag.Bool("list", false, "List registered algorithms and exit")

	flag.Parse()

	if *listAlgorithms {
		for _, name := range detector.List() {
			fmt.Println(name)
		}
		return
	}

	if *input == "" {
		log.Fatal("Error: -input parameter is required (use - for stdin)")
	}

	series, err := readSeries(*input)
	if err != nil {
		log.Fatalf("Error reading series: %v\n", err)
	}

	var baseline *timeseries.TimeSeries
	if *baselineFile != "" {
		baseline, err = readSeries(*baselineFile)
		if err != nil {
			log.Fatalf("Error reading baseline: %v\n", err)
		}
	}

	cfg := detector.Config{
		Series:        series,
		Baseline:      baseline,
		AlgorithmName: *algorithm,
		ScoreOnly:     *scoreOnly,
	}

	if *params != "" {
		var bag map[string]interface{}
		if err := json.Unmarshal([]byte(*params), &bag); err != nil {
			log.Fatalf("Error: -params must be a JSON object: %v\n", err)
		}
		cfg.AlgorithmParams = bag
	}

	if *percentile > 0 {
		cfg.ScorePercentile = percentile
	} else if *threshold != 0 {
		cfg.ScoreThreshold = threshold
	}

	d, err := detector.New(cfg)
	if err != nil {
		log.Fatalf("Error: %v\n", err)
	}

	out := struct {
		Algorithm string             `json:"algorithm"`
		Scores    []timeseries.Point `json:"scores"`
		Anomalies []detector.Anomaly `json:"anomalies"`
	}{
		Algorithm: d.AlgorithmName(),
		Scores:    d.GetAllScores().Points(),
		Anomalies: d.GetAnomalies(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		log.Fatalf("Error encoding output: %v\n", err)
	}
}

// readSeries parses a timestamp,value CSV file into a series
func readSeries(path string) (*timeseries.TimeSeries, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var points []timeseries.Point
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		// Skip a header row if present
		if line == 1 {
			if _, err := strconv.ParseInt(record[0], 10, 64); err != nil {
				continue
			}
		}

		ts, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q", line, record[0])
		}
		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value %q", line, record[1])
		}
		points = append(points, timeseries.Point{Timestamp: ts, Value: value})
	}

	return timeseries.New(points), nil
}
