// internal/engine/pathway/endpoints.go
package pathway

import "github.com/AirieImmigration/pathway-engine/internal/models"

// stageMapping maps a profile's journey stage to the visa stages that can
// anchor a pathway start, in preference order.
var stageMapping = map[string][]models.Stage{
	"not-in-nz":       {models.StageNotInNZ, models.StageVisitor},
	"initial-visas":   {models.StageWork, models.StageStudent, models.StageVisitor},
	"pathway":         {models.StageWork, models.StageStudent},
	"first-residence": {models.StageFirstResidence},
	"permanent":       {models.StagePermanent},
}

// DetermineStartVisa picks the pathway's starting visa for a journey stage.
// Falls back to the first catalog visa when no stage matches, and returns
// an empty slug only for an empty catalog.
func DetermineStartVisa(visas []models.Visa, journeyStage string) string {
	if journeyStage == "" {
		journeyStage = "not-in-nz"
	}
	targetStages, ok := stageMapping[journeyStage]
	if !ok {
		targetStages = []models.Stage{models.StageNotInNZ}
	}

	for _, target := range targetStages {
		for _, visa := range visas {
			if visa.Stage == target {
				return visa.Slug
			}
		}
	}

	if len(visas) > 0 {
		return visas[0].Slug
	}
	return ""
}

// DetermineGoalVisas resolves the acceptable pathway end points. An
// explicit target visa wins; otherwise every visa at the desired residence
// stage qualifies.
func DetermineGoalVisas(visas []models.Visa, goalVisaSlug string, wantsPermanent bool) []string {
	if goalVisaSlug != "" {
		return []string{goalVisaSlug}
	}

	targetStage := models.StageFirstResidence
	if wantsPermanent {
		targetStage = models.StagePermanent
	}

	var goals []string
	for _, visa := range visas {
		if visa.Stage == targetStage {
			goals = append(goals, visa.Slug)
		}
	}
	return goals
}
