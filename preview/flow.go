// Package preview drives the workout-preview flow: it decodes an
// incoming plan payload, shapes it into display sections, and runs the
// save and regenerate actions against external collaborators. It holds
// no state beyond the current plan and the in-flight flags.
package preview

import (
	"context"

	"fitlink/models"
)

type Generator interface {
	Generate(ctx context.Context, params models.GenerationParams) (*models.WorkoutPlan, error)
}

type Saver interface {
	SaveWorkout(ctx context.Context, params models.GenerationParams, plan *models.WorkoutPlan) error
}

// Events receives the flow's user-facing effects. Implementations are
// expected to be the embedding screen.
type Events interface {
	ShowError(message string)
	NavigateToDetail(payload string)
	ScrollToTop()
}

type Flow struct {
	generator Generator
	saver     Saver
	events    Events

	params       models.GenerationParams
	plan         *models.WorkoutPlan
	saving       bool
	regenerating bool
}

// NewFlow builds a flow around the original generation parameters; save
// and regenerate both reuse them unchanged.
func NewFlow(gen Generator, saver Saver, events Events, params models.GenerationParams) *Flow {
	return &Flow{
		generator: gen,
		saver:     saver,
		events:    events,
		params:    params,
	}
}

// Load decodes the incoming serialized plan. On failure the flow stays
// data-less; no retry is offered at this layer.
func (f *Flow) Load(payload string) error {
	plan, err := models.DecodePlan(payload)
	if err != nil {
		f.events.ShowError("could not load workout")
		return err
	}
	f.plan = plan
	return nil
}

func (f *Flow) Plan() *models.WorkoutPlan {
	return f.plan
}

func (f *Flow) Params() models.GenerationParams {
	return f.params
}

func (f *Flow) Saving() bool {
	return f.saving
}

func (f *Flow) Regenerating() bool {
	return f.regenerating
}

// Save persists the current plan together with the original generation
// parameters, then hands the serialized plan to the detail view. A save
// already in flight makes this a no-op. On failure the plan is retained
// so the user can retry.
func (f *Flow) Save(ctx context.Context) {
	if f.saving || f.plan == nil {
		return
	}
	f.saving = true
	defer func() { f.saving = false }()

	if err := f.saver.SaveWorkout(ctx, f.params, f.plan); err != nil {
		f.events.ShowError(err.Error())
		return
	}

	payload, err := models.EncodePlan(f.plan)
	if err != nil {
		f.events.ShowError(err.Error())
		return
	}
	f.events.NavigateToDetail(payload)
}

// Regenerate replaces the plan with a fresh one from the generator. On
// failure the previous plan is kept. A regeneration already in flight
// makes this a no-op.
func (f *Flow) Regenerate(ctx context.Context) {
	if f.regenerating {
		return
	}
	f.regenerating = true
	defer func() { f.regenerating = false }()

	plan, err := f.generator.Generate(ctx, f.params)
	if err != nil {
		f.events.ShowError(err.Error())
		return
	}

	f.plan = plan
	f.events.ScrollToTop()
}
