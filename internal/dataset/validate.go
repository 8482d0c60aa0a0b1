package dataset

import (
	"fmt"
	"math"
	"strings"
)

// Fine-tuning readiness heuristics.
const (
	minDatasetSize  = 10
	maxInputLength  = 2000
	maxOutputLength = 4000
	minOutputLength = 50
)

// Stats holds length statistics across all examples.
type Stats struct {
	AvgInputLength  int `json:"avg_input_length"`
	AvgOutputLength int `json:"avg_output_length"`
	MinInputLength  int `json:"min_input_length"`
	MaxInputLength  int `json:"max_input_length"`
	MinOutputLength int `json:"min_output_length"`
	MaxOutputLength int `json:"max_output_length"`
}

// ValidationReport is the judgment over an assembled dataset. Errors block
// export readiness; warnings are advisory and never affect Valid.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Stats    Stats    `json:"stats"`
}

// Validate checks a dataset against fine-tuning readiness heuristics. Pure
// and total: it reports, it never refuses.
func Validate(ds TrainingDataset) ValidationReport {
	report := ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}

	emptyFields := 0
	longInputs := 0
	longOutputs := 0
	shortOutputs := 0
	var inputSum, outputSum int

	for i, example := range ds.Examples {
		inputLen := len(example.Input)
		outputLen := len(example.Output)
		inputSum += inputLen
		outputSum += outputLen

		if i == 0 {
			report.Stats.MinInputLength = inputLen
			report.Stats.MaxInputLength = inputLen
			report.Stats.MinOutputLength = outputLen
			report.Stats.MaxOutputLength = outputLen
		} else {
			report.Stats.MinInputLength = min(report.Stats.MinInputLength, inputLen)
			report.Stats.MaxInputLength = max(report.Stats.MaxInputLength, inputLen)
			report.Stats.MinOutputLength = min(report.Stats.MinOutputLength, outputLen)
			report.Stats.MaxOutputLength = max(report.Stats.MaxOutputLength, outputLen)
		}

		if strings.TrimSpace(example.Input) == "" || strings.TrimSpace(example.Output) == "" {
			emptyFields++
		}
		if inputLen > maxInputLength {
			longInputs++
		}
		if outputLen > maxOutputLength {
			longOutputs++
		}
		if outputLen < minOutputLength {
			shortOutputs++
		}
	}

	if n := len(ds.Examples); n > 0 {
		report.Stats.AvgInputLength = int(math.Round(float64(inputSum) / float64(n)))
		report.Stats.AvgOutputLength = int(math.Round(float64(outputSum) / float64(n)))
	}

	if emptyFields > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%d example(s) have empty input or output fields", emptyFields))
	}
	if len(ds.Examples) < minDatasetSize {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("dataset has only %d examples; fewer than %d is likely too small for effective fine-tuning", len(ds.Examples), minDatasetSize))
	}
	if longInputs > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d example(s) have inputs over %d characters; consider shortening", longInputs, maxInputLength))
	}
	if longOutputs > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d example(s) have outputs over %d characters; consider shortening", longOutputs, maxOutputLength))
	}
	if shortOutputs > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d example(s) have outputs under %d characters; consider adding more detail", shortOutputs, minOutputLength))
	}

	report.Valid = len(report.Errors) == 0
	return report
}
