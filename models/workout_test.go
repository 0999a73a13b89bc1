package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanRoundTrip(t *testing.T) {
	plan := &WorkoutPlan{
		Title:       "Full Body Reset",
		Description: "A balanced session for a low-energy day",
		Difficulty:  "beginner",
		TotalTime:   "30 min",
		WarmUp:      "March in place for 3 minutes",
		CoolDown:    "Hamstring stretches",
		Exercises: []Exercise{
			{Name: "Bodyweight Squats", Sets: "3", Reps: "15", RestBetweenSets: "45s", Instructions: "Keep your heels down."},
			{Name: "Plank", Duration: "30s", Instructions: "Hold a straight line.", VideoURL: "https://example.com/plank"},
		},
	}

	payload, err := EncodePlan(plan)
	require.NoError(t, err)

	got, err := DecodePlan(payload)
	require.NoError(t, err)
	require.Equal(t, plan, got)
}

func TestDecodePlanMalformed(t *testing.T) {
	for _, payload := range []string{"not a plan", "null", "{}", `{"difficulty":"hard"}`, "[]"} {
		_, err := DecodePlan(payload)
		require.Error(t, err, "payload %q should be rejected", payload)
	}
}

func TestDecodePlanMinimal(t *testing.T) {
	got, err := DecodePlan(`{"title":"Stretch Routine"}`)
	require.NoError(t, err)
	require.Equal(t, "Stretch Routine", got.Title)
}

func TestProfileToSummary(t *testing.T) {
	p := &Profile{
		ID:          "1",
		Username:    "anna",
		Password:    "secret-hash",
		Avatar:      "https://example.com/a.png",
		FitnessGoal: "run a 10k",
	}

	s := p.ToSummary()
	require.Equal(t, &ProfileSummary{
		ID:          "1",
		Username:    "anna",
		Avatar:      "https://example.com/a.png",
		FitnessGoal: "run a 10k",
	}, s)
}
