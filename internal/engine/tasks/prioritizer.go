// internal/engine/tasks/prioritizer.go
package tasks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// PrioritizedTask is a catalog task annotated with the context that made it
// relevant: how important and urgent the blocking criterion is, which
// pathway steps it affects, and a composite priority score.
type PrioritizedTask struct {
	Task
	Urgency           Urgency    `json:"urgency"`
	Importance        Importance `json:"importance"`
	PriorityScore     int        `json:"priorityScore"`
	ApplicableSteps   []string   `json:"applicableSteps"`
	ImpactDescription string     `json:"impactDescription"`
}

// Prioritize maps unmet criteria to remediation tasks via the given
// strategy, scores them, and returns them highest priority first. A task
// surfaced by several criteria appears once, with the union of the
// applicable steps from each occurrence; its score and descriptions keep
// the values from the first criterion that produced it.
func Prioritize(unmetCriteria []string, profile models.Profile, pathwaySteps []models.PlanStep, strategy MappingStrategy) []PrioritizedTask {
	if strategy == nil {
		strategy = ExactTableStrategy{}
	}

	byID := make(map[string]*PrioritizedTask)
	var order []string

	for _, criterion := range unmetCriteria {
		applicable := applicableSteps(criterion, pathwaySteps)

		for _, cand := range strategy.Map(criterion, profile) {
			if existing, ok := byID[cand.TaskID]; ok {
				existing.ApplicableSteps = unionSteps(existing.ApplicableSteps, applicable)
				continue
			}

			task, ok := Lookup(cand.TaskID)
			if !ok {
				continue
			}

			score := PriorityScore(cand.Importance, cand.Urgency, len(applicable))
			byID[cand.TaskID] = &PrioritizedTask{
				Task:              task,
				Urgency:           cand.Urgency,
				Importance:        cand.Importance,
				PriorityScore:     score,
				ApplicableSteps:   applicable,
				ImpactDescription: impactDescription(cand.Importance, applicable),
			}
			order = append(order, cand.TaskID)
		}
	}

	result := make([]PrioritizedTask, 0, len(order))
	for _, id := range order {
		result = append(result, *byID[id])
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].PriorityScore != result[j].PriorityScore {
			return result[i].PriorityScore > result[j].PriorityScore
		}
		di, dj := difficultyRank(result[i].Difficulty), difficultyRank(result[j].Difficulty)
		if di != dj {
			return di > dj
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// PriorityScore combines importance (up to 40), urgency (up to 35) and the
// number of pathway steps the task unblocks (8 per step, capped at 25).
// The maximum is 100.
func PriorityScore(importance Importance, urgency Urgency, stepCount int) int {
	score := 0

	switch importance {
	case ImportanceCritical:
		score += 40
	case ImportanceImportant:
		score += 25
	case ImportanceBeneficial:
		score += 10
	}

	switch urgency {
	case UrgencyHigh:
		score += 35
	case UrgencyMedium:
		score += 20
	case UrgencyLow:
		score += 5
	}

	stepBonus := stepCount * 8
	if stepBonus > 25 {
		stepBonus = 25
	}
	return score + stepBonus
}

// applicableSteps decides which pathway steps an unmet criterion bears on.
// Criteria about improvable attributes apply to every step in the pathway;
// anything else applies to none. A finer per-visa mapping would need the
// requirement tables, which the caller does via the catalog instead.
func applicableSteps(criterion string, steps []models.PlanStep) []string {
	c := strings.ToLower(criterion)
	improvable := strings.Contains(c, "english") ||
		strings.Contains(c, "experience") ||
		strings.Contains(c, "salary") ||
		strings.Contains(c, "registration") ||
		strings.Contains(c, "job offer") ||
		strings.Contains(c, "degree")
	if !improvable {
		return nil
	}
	slugs := make([]string, 0, len(steps))
	for _, step := range steps {
		slugs = append(slugs, step.VisaSlug)
	}
	return slugs
}

func unionSteps(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range extra {
		if !seen[s] {
			seen[s] = true
			existing = append(existing, s)
		}
	}
	return existing
}

func impactDescription(importance Importance, applicable []string) string {
	level := "potentially"
	switch importance {
	case ImportanceCritical:
		level = "significantly"
	case ImportanceImportant:
		level = "noticeably"
	}

	switch len(applicable) {
	case 0:
		return fmt.Sprintf("Will %s improve your overall profile", level)
	case 1:
		return fmt.Sprintf("Will %s improve your chances for %s", level, applicable[0])
	default:
		return fmt.Sprintf("Will %s improve your chances across %d visa steps", level, len(applicable))
	}
}

func difficultyRank(d Difficulty) int {
	switch d {
	case DifficultyHard:
		return 3
	case DifficultyMedium:
		return 2
	case DifficultyEasy:
		return 1
	default:
		return 0
	}
}

// GroupByCategory buckets prioritized tasks by their catalog category,
// preserving the priority order inside each bucket.
func GroupByCategory(tasks []PrioritizedTask) map[string][]PrioritizedTask {
	groups := make(map[string][]PrioritizedTask)
	for _, t := range tasks {
		groups[t.Category] = append(groups[t.Category], t)
	}
	return groups
}
