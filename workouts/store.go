// Package workouts persists generated plans to the workout history,
// keeping the original generation parameters alongside each entry.
package workouts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fitlink/models"
	"fitlink/utils"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save writes the plan and its generation parameters as a new history
// entry for the user and returns the stored entry.
func (s *Store) Save(ctx context.Context, userID string, params models.GenerationParams, plan *models.WorkoutPlan) (*models.WorkoutHistoryEntry, error) {
	exercises, err := json.Marshal(plan.Exercises)
	if err != nil {
		return nil, fmt.Errorf("encode exercises: %w", err)
	}

	id := utils.GenerateUUID()
	now := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workout_history
			(id, user_id, title, description, difficulty, total_time, warm_up, cool_down,
			 exercises, workout_type, time_available, mood, muscle_focus, equipment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, userID, plan.Title, plan.Description, plan.Difficulty, plan.TotalTime,
		plan.WarmUp, plan.CoolDown, exercises, params.WorkoutType, params.TimeAvailable,
		params.Mood, params.MuscleFocus, params.Equipment, now)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}

	return &models.WorkoutHistoryEntry{
		ID:        id,
		UserID:    userID,
		Plan:      *plan,
		Params:    params,
		CreatedAt: now,
	}, nil
}

// History returns the user's saved workouts, newest first.
func (s *Store) History(ctx context.Context, userID string, limit int) ([]models.WorkoutHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, difficulty, total_time, warm_up, cool_down,
		       exercises, workout_type, time_available, mood, muscle_focus, equipment, created_at
		FROM workout_history
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	entries := []models.WorkoutHistoryEntry{}
	for rows.Next() {
		var e models.WorkoutHistoryEntry
		var exercises []byte
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Plan.Title, &e.Plan.Description, &e.Plan.Difficulty,
			&e.Plan.TotalTime, &e.Plan.WarmUp, &e.Plan.CoolDown, &exercises,
			&e.Params.WorkoutType, &e.Params.TimeAvailable, &e.Params.Mood,
			&e.Params.MuscleFocus, &e.Params.Equipment, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if err := json.Unmarshal(exercises, &e.Plan.Exercises); err != nil {
			return nil, fmt.Errorf("decode exercises: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return entries, nil
}
