// internal/models/plan.go
package models

// PlanStep is one ordered entry of a computed pathway.
type PlanStep struct {
	VisaSlug string `json:"visaSlug"`
}

// PlanState is the single client-local snapshot blob: everything the wizard
// has captured so far. It is read-modify-written wholesale; the engine only
// ever receives its fields as plain values.
type PlanState struct {
	PlanID           string     `json:"planId,omitempty"`
	ProfileSlug      string     `json:"profileSlug,omitempty"`
	Profile          *Profile   `json:"profile,omitempty"`
	ModifiedProfile  *Profile   `json:"modifiedProfile,omitempty"`
	Goal             *Goal      `json:"goal,omitempty"`
	Pathway          []PlanStep `json:"pathway,omitempty"`
	CompletedTaskIDs []string   `json:"completedTaskIds,omitempty"`
}

// PathwaySlugs returns the ordered visa slugs of the stored pathway.
func (s PlanState) PathwaySlugs() []string {
	slugs := make([]string, 0, len(s.Pathway))
	for _, step := range s.Pathway {
		slugs = append(slugs, step.VisaSlug)
	}
	return slugs
}

// StepsFromSlugs builds plan steps from an ordered slug list.
func StepsFromSlugs(slugs []string) []PlanStep {
	steps := make([]PlanStep, 0, len(slugs))
	for _, slug := range slugs {
		steps = append(steps, PlanStep{VisaSlug: slug})
	}
	return steps
}
