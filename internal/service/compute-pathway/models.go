// internal/service/compute-pathway/models.go
package computepathway

import "github.com/AirieImmigration/pathway-engine/internal/models"

// Input is one pathway computation request.
type Input struct {
	PlanID         string         `json:"planId"`
	Profile        models.Profile `json:"profile"`
	JourneyStage   string         `json:"journeyStage"`
	GoalVisaSlug   string         `json:"goalVisaSlug,omitempty"`
	WantsPermanent bool           `json:"wantsPermanent,omitempty"`
}

// Output is the computed pathway. Reachable false means no goal visa can
// be reached from the start; Path is empty in that case.
type Output struct {
	Reachable     bool          `json:"reachable"`
	Path          []string      `json:"path,omitempty"`
	Visas         []models.Visa `json:"visas,omitempty"`
	TotalWeight   float64       `json:"totalWeight"`
	StartVisaSlug string        `json:"startVisaSlug,omitempty"`
	GoalVisaSlugs []string      `json:"goalVisaSlugs,omitempty"`
}
