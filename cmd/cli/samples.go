package main

import (
	"encoding/json"
	"fmt"

	"samplewms/domain/core"
	"samplewms/domain/sample"

	"github.com/tidwall/gjson"
)

// loadSamples decodes a sample array, optionally located at a gjson path.
// A single object is accepted as a one-element list.
func loadSamples(body []byte, path string) ([]sample.Sample, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("input is not valid JSON")
	}
	result := gjson.ParseBytes(body)
	if path != "" {
		result = gjson.GetBytes(body, path)
		if !result.Exists() {
			return nil, fmt.Errorf("path '%s' not found in input", path)
		}
	}

	var samples []sample.Sample
	switch {
	case result.IsArray():
		if err := json.Unmarshal([]byte(result.Raw), &samples); err != nil {
			return nil, fmt.Errorf("failed to parse sample array: %w", err)
		}
	case result.IsObject():
		var one sample.Sample
		if err := json.Unmarshal([]byte(result.Raw), &one); err != nil {
			return nil, fmt.Errorf("failed to parse sample: %w", err)
		}
		samples = []sample.Sample{one}
	default:
		return nil, fmt.Errorf("input holds neither a sample array nor a sample object")
	}

	for i := range samples {
		samples[i].Normalize()
		if samples[i].ID.IsEmpty() {
			samples[i].ID = core.NewSampleID()
		}
	}
	return samples, nil
}
