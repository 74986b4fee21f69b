// internal/engine/tasks/generator.go
package tasks

import (
	"sort"
	"strings"

	"github.com/AirieImmigration/pathway-engine/internal/engine/assessor"
	"github.com/AirieImmigration/pathway-engine/internal/models"
)

// VisaAssessment bundles a visa with the criterion assessments produced
// for it.
type VisaAssessment struct {
	VisaSlug    string
	Assessments []assessor.Assessment
}

// GeneratedTask is a catalog task surfaced from failed or unresolved
// assessments, with the visas it would help and a 1-5 priority.
type GeneratedTask struct {
	Task
	RelevantToVisas []string `json:"relevantToVisas"`
	Priority        int      `json:"priority"`
}

// GenerateFromAssessments scans every visa's assessments, maps each
// criterion that was not met outright to remediation tasks, and returns
// the deduplicated set ordered by priority. Criteria answered "yes" never
// produce tasks; "no" and "unknown" both do, since either blocks a
// confident application.
func GenerateFromAssessments(visaAssessments []VisaAssessment, profile models.Profile) []GeneratedTask {
	strategy := PatternStrategy{}

	relevantVisas := make(map[string][]string)
	var order []string

	for _, va := range visaAssessments {
		for _, a := range va.Assessments {
			if a.Met == assessor.VerdictYes {
				continue
			}
			for _, cand := range strategy.Map(a.Criterion, profile) {
				if _, ok := relevantVisas[cand.TaskID]; !ok {
					order = append(order, cand.TaskID)
				}
				relevantVisas[cand.TaskID] = append(relevantVisas[cand.TaskID], va.VisaSlug)
			}
		}
	}

	generated := make([]GeneratedTask, 0, len(order))
	for _, id := range order {
		task, ok := Lookup(id)
		if !ok {
			continue
		}
		generated = append(generated, GeneratedTask{
			Task:            task,
			RelevantToVisas: relevantVisas[id],
			Priority:        taskPriority(task, relevantVisas[id], profile),
		})
	}

	sort.SliceStable(generated, func(i, j int) bool {
		if generated[i].Priority != generated[j].Priority {
			return generated[i].Priority > generated[j].Priority
		}
		return difficultyRank(generated[i].Difficulty) > difficultyRank(generated[j].Difficulty)
	})
	return generated
}

// taskPriority rates a task 1-5. Breadth across visas, quick wins and
// foundational gaps (basic English, no degree) all push the rating up.
func taskPriority(task Task, visaSlugs []string, profile models.Profile) int {
	priority := 1

	extra := len(visaSlugs) - 1
	if extra > 3 {
		extra = 3
	}
	priority += extra

	if task.Category == "English" && profile.EnglishLevel == models.EnglishBasic {
		priority += 2
	}

	if task.Difficulty == DifficultyEasy {
		priority++
	}
	if strings.Contains(task.EstimatedTime, "month") && !strings.Contains(task.EstimatedTime, "12") {
		priority++
	}

	if task.Category == "Education" && profile.EducationLevel == models.EducationHighSchool {
		priority += 2
	}

	if priority > 5 {
		priority = 5
	}
	return priority
}

// GroupGeneratedByCategory buckets generated tasks by catalog category.
func GroupGeneratedByCategory(tasks []GeneratedTask) map[string][]GeneratedTask {
	grouped := make(map[string][]GeneratedTask)
	for _, t := range tasks {
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	return grouped
}
