// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// seedSchema validates the structural shape of a seed file before it is
// unmarshalled, so the seeder fails with field-level messages instead of
// half-loading a malformed catalog.
const seedSchema = `{
	"type": "object",
	"required": ["version", "visas"],
	"properties": {
		"version": {"type": "string", "minLength": 1},
		"lastUpdated": {"type": "string"},
		"visas": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["slug", "name"],
				"properties": {
					"slug": {"type": "string", "pattern": "^[a-z0-9]+(-[a-z0-9]+)*$"},
					"name": {"type": "string", "minLength": 1},
					"type": {"type": "string"},
					"stage": {"type": "string"},
					"shortDescription": {"type": "string"},
					"eligibilityCriteria": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"pathway": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["visaName", "stepName", "stepOrder"],
				"properties": {
					"visaName": {"type": "string", "minLength": 1},
					"stepName": {"type": "string", "minLength": 1},
					"stepOrder": {"type": "integer", "minimum": 1},
					"duration": {"type": "string"},
					"eligibility": {"type": "string"},
					"timeframeUntilNext": {"type": "string"}
				}
			}
		}
	}
}`

// LoadSeedFile reads, validates and parses a catalog seed file.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(seedSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate seed file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("seed file invalid: %s", strings.Join(msgs, "; "))
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &seed, nil
}
