package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `{
		"version": "1.0.0",
		"lastUpdated": "2026-08-01",
		"visas": [
			{
				"slug": "skilled-migrant",
				"name": "Skilled Migrant Category Resident Visa",
				"stage": "FirstResidence",
				"eligibilityCriteria": ["Is under 55 years old"]
			}
		],
		"pathway": [
			{"visaName": "Skilled Work Pathway", "stepName": "Accredited Employer Work Visa", "stepOrder": 1}
		]
	}`)

	seed, err := LoadSeedFile(path)

	require.NoError(t, err)
	assert.Equal(t, "1.0.0", seed.Version)
	require.Len(t, seed.Visas, 1)
	assert.Equal(t, "skilled-migrant", seed.Visas[0].Slug)
	require.Len(t, seed.Pathway, 1)
	assert.Equal(t, 1, seed.Pathway[0].StepOrder)
}

func TestLoadSeedFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing version", `{"visas": []}`},
		{"bad slug casing", `{"version": "1", "visas": [{"slug": "Skilled Migrant", "name": "SMC"}]}`},
		{"step order below one", `{"version": "1", "visas": [], "pathway": [{"visaName": "p", "stepName": "s", "stepOrder": 0}]}`},
		{"not json", `version: 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeedFile_MissingFile(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
