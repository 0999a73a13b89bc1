package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Exercise fields besides name and instructions are opaque display
// strings produced by the generator; they are never parsed or computed on.
type Exercise struct {
	Name            string `json:"name"`
	Sets            string `json:"sets,omitempty"`
	Reps            string `json:"reps,omitempty"`
	Duration        string `json:"duration,omitempty"`
	RestBetweenSets string `json:"rest_between_sets,omitempty"`
	Instructions    string `json:"instructions"`
	VideoURL        string `json:"video_url,omitempty"`
}

// WorkoutPlan is produced by the external generator and read-only here.
type WorkoutPlan struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	TotalTime   string     `json:"total_time"`
	WarmUp      string     `json:"warm_up,omitempty"`
	CoolDown    string     `json:"cool_down,omitempty"`
	Exercises   []Exercise `json:"exercises"`
}

// GenerationParams is the parameter set a plan was generated from. It is
// carried alongside the plan so save and regenerate reuse the original
// inputs.
type GenerationParams struct {
	WorkoutType   string `json:"workout_type"`
	TimeAvailable string `json:"time_available"`
	Mood          string `json:"mood"`
	MuscleFocus   string `json:"muscle_focus"`
	Equipment     string `json:"equipment"`
}

type WorkoutHistoryEntry struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Plan      WorkoutPlan      `json:"plan"`
	Params    GenerationParams `json:"params"`
	CreatedAt time.Time        `json:"created_at"`
}

// EncodePlan serializes a plan to the JSON interchange payload handed
// across the navigation boundary.
func EncodePlan(plan *WorkoutPlan) (string, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func DecodePlan(payload string) (*WorkoutPlan, error) {
	var plan *WorkoutPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, err
	}
	// JSON null and empty objects decode without error; a plan carrying
	// neither a title nor exercises is not a workout.
	if plan == nil || (plan.Title == "" && len(plan.Exercises) == 0) {
		return nil, errors.New("payload is not a workout plan")
	}
	return plan, nil
}
