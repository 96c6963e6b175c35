// cmd/tools/score-assessment/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"qscore-workers/internal/assessment"
	"qscore-workers/internal/qscore"
)

type report struct {
	QScore          *qscore.PRDQScore                               `json:"qScore"`
	PreBluffOverall int                                             `json:"preBluffOverall"`
	BluffPenalty    int                                             `json:"bluffPenaltyPercent"`
	BluffSignals    []qscore.BluffSignal                            `json:"bluffSignals"`
	Confidence      map[qscore.Dimension]qscore.DimensionConfidence `json:"confidence"`
	Recommendations []qscore.Recommendation                         `json:"recommendations"`
	Issues          []assessment.Issue                              `json:"validationIssues,omitempty"`
}

func main() {
	file := flag.String("file", "", "Path to an assessment JSON file (required)")
	previous := flag.String("previous", "", "Path to a previous PRDQScore JSON file for trends")
	sector := flag.String("sector", qscore.DefaultSector, "Weight profile: "+strings.Join(qscore.Sectors(), ", "))
	flag.Parse()

	if *file == "" {
		fmt.Println("Error: -file is required.")
		flag.Usage()
		os.Exit(1)
	}

	out, err := run(*file, *previous, *sector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func run(file, previousFile, sector string) ([]byte, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read assessment: %w", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("assessment must be a JSON object: %w", err)
	}
	issues, err := assessment.Validate(fields)
	if err != nil {
		return nil, err
	}

	data, err := assessment.Decode(raw)
	if err != nil {
		return nil, err
	}

	var prev *qscore.PRDQScore
	if previousFile != "" {
		prevRaw, err := os.ReadFile(previousFile)
		if err != nil {
			return nil, fmt.Errorf("read previous score: %w", err)
		}
		prev = &qscore.PRDQScore{}
		if err := json.Unmarshal(prevRaw, prev); err != nil {
			return nil, fmt.Errorf("decode previous score: %w", err)
		}
	}

	engine, err := qscore.NewEngine(qscore.WithSector(sector))
	if err != nil {
		return nil, err
	}
	result := engine.Evaluate(data, prev)

	return json.MarshalIndent(report{
		QScore:          result.Score,
		PreBluffOverall: result.PreBluffOverall,
		BluffPenalty:    result.PenaltyPercent,
		BluffSignals:    result.Signals,
		Confidence:      result.Confidence,
		Recommendations: qscore.Recommend(result.Score),
		Issues:          issues,
	}, "", "  ")
}
