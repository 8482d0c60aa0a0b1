package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// exportExample is the reduced per-example shape used by both formats.
type exportExample struct {
	Input    string           `json:"input"`
	Output   string           `json:"output"`
	Metadata *ExampleMetadata `json:"metadata,omitempty"`
}

func reduceExamples(ds TrainingDataset, includeMetadata bool) []exportExample {
	reduced := make([]exportExample, len(ds.Examples))
	for i, example := range ds.Examples {
		reduced[i] = exportExample{
			Input:  example.Input,
			Output: example.Output,
		}
		if includeMetadata {
			reduced[i].Metadata = example.Metadata
		}
	}
	return reduced
}

// EncodeJSONL writes one JSON object per line, in example order.
func EncodeJSONL(w io.Writer, ds TrainingDataset, includeMetadata bool) error {
	enc := json.NewEncoder(w)
	for i, record := range reduceExamples(ds, includeMetadata) {
		if err := enc.Encode(record); err != nil {
			return fmt.Errorf("encode example %d: %w", i, err)
		}
	}
	return nil
}

// WriteJSONL serializes the dataset to disk as JSON Lines.
func WriteJSONL(path string, ds TrainingDataset, includeMetadata bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeJSONL(file, ds, includeMetadata)
}

// jsonExport mirrors the full dataset structure with reduced examples.
type jsonExport struct {
	Examples []exportExample `json:"examples"`
	Summary  Summary         `json:"summary"`
	Metadata Metadata        `json:"metadata"`
}

// EncodeJSON writes the full dataset as a single JSON document.
func EncodeJSON(w io.Writer, ds TrainingDataset, includeMetadata bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonExport{
		Examples: reduceExamples(ds, includeMetadata),
		Summary:  ds.Summary,
		Metadata: ds.Metadata,
	})
}

// WriteJSON serializes the dataset to disk as a single JSON document.
func WriteJSON(path string, ds TrainingDataset, includeMetadata bool) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeJSON(file, ds, includeMetadata)
}
