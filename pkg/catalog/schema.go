// pkg/catalog/schema.go
package catalog

// SeedFile is the JSON seed format consumed by the catalog-seeder tool.
type SeedFile struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Visas       []SeedVisa  `json:"visas"`
	Pathway     []SeedStep  `json:"pathway"`
}

// SeedVisa is one catalog visa record in the seed file.
type SeedVisa struct {
	Slug                string   `json:"slug"`
	Name                string   `json:"name"`
	Type                string   `json:"type,omitempty"`
	Stage               string   `json:"stage,omitempty"`
	ShortDescription    string   `json:"shortDescription,omitempty"`
	EligibilityCriteria []string `json:"eligibilityCriteria,omitempty"`
}

// SeedStep is one residence-pathway step row in the seed file.
type SeedStep struct {
	VisaName           string `json:"visaName"`
	StepName           string `json:"stepName"`
	StepOrder          int    `json:"stepOrder"`
	Duration           string `json:"duration,omitempty"`
	Eligibility        string `json:"eligibility,omitempty"`
	TimeframeUntilNext string `json:"timeframeUntilNext,omitempty"`
}
