package handlers

import (
	"github.com/gin-gonic/gin"

	"fitlink/middleware"
	"fitlink/models"
	"fitlink/preview"
	"fitlink/utils"
)

const historyLimit = 20

type GenerateWorkoutRequest struct {
	WorkoutType   string `json:"workout_type" binding:"required"`
	TimeAvailable string `json:"time_available" binding:"required"`
	Mood          string `json:"mood"`
	MuscleFocus   string `json:"muscle_focus"`
	Equipment     string `json:"equipment"`
}

type SaveWorkoutRequest struct {
	Params models.GenerationParams `json:"params" binding:"required"`
	Plan   models.WorkoutPlan      `json:"plan" binding:"required"`
}

// GenerateWorkout asks the external generator for a plan and returns it
// together with its display sections.
func GenerateWorkout(c *gin.Context) {
	var req GenerateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	params := models.GenerationParams{
		WorkoutType:   req.WorkoutType,
		TimeAvailable: req.TimeAvailable,
		Mood:          req.Mood,
		MuscleFocus:   req.MuscleFocus,
		Equipment:     req.Equipment,
	}

	plan, err := genClient.Generate(c.Request.Context(), params)
	if err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"plan":     plan,
		"params":   params,
		"sections": preview.Sections(plan),
	})
}

func SaveWorkout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	entry, err := workoutStore.Save(c.Request.Context(), userID, req.Params, &req.Plan)
	if err != nil {
		utils.InternalError(c, "failed to save workout")
		return
	}

	utils.Success(c, entry)
}

func GetWorkoutHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)

	entries, err := workoutStore.History(c.Request.Context(), userID, historyLimit)
	if err != nil {
		utils.InternalError(c, "failed to load workout history")
		return
	}

	utils.Success(c, entries)
}
