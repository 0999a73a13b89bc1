package preview

import "fitlink/models"

const (
	SectionOverview = "overview"
	SectionWarmUp   = "warm_up"
	SectionExercise = "exercise"
	SectionCoolDown = "cool_down"
)

// Section is one display-ready block of the preview screen.
type Section struct {
	Kind       string           `json:"kind"`
	Title      string           `json:"title"`
	Body       string           `json:"body,omitempty"`
	Difficulty string           `json:"difficulty,omitempty"`
	TotalTime  string           `json:"total_time,omitempty"`
	Exercise   *models.Exercise `json:"exercise,omitempty"`
}

// Sections shapes a plan into ordered display sections: overview,
// optional warm-up, one section per exercise, optional cool-down.
func Sections(plan *models.WorkoutPlan) []Section {
	if plan == nil {
		return nil
	}

	sections := []Section{{
		Kind:       SectionOverview,
		Title:      plan.Title,
		Body:       plan.Description,
		Difficulty: plan.Difficulty,
		TotalTime:  plan.TotalTime,
	}}

	if plan.WarmUp != "" {
		sections = append(sections, Section{
			Kind:  SectionWarmUp,
			Title: "Warm-up",
			Body:  plan.WarmUp,
		})
	}

	for i := range plan.Exercises {
		sections = append(sections, Section{
			Kind:     SectionExercise,
			Title:    plan.Exercises[i].Name,
			Exercise: &plan.Exercises[i],
		})
	}

	if plan.CoolDown != "" {
		sections = append(sections, Section{
			Kind:  SectionCoolDown,
			Title: "Cool-down",
			Body:  plan.CoolDown,
		})
	}

	return sections
}

// Sections returns the current plan shaped for display, or nil while the
// flow is data-less.
func (f *Flow) Sections() []Section {
	return Sections(f.plan)
}
