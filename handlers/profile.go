package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"fitlink/database"
	"fitlink/middleware"
	"fitlink/models"
	"fitlink/utils"
)

type UpdateProfileRequest struct {
	Sex         string   `json:"sex"`
	DateOfBirth string   `json:"date_of_birth"` // YYYY-MM-DD
	Weight      *float64 `json:"weight"`
	WeightUnit  string   `json:"weight_unit" binding:"omitempty,oneof=kg lb"`
	Height      *float64 `json:"height"`
	HeightUnit  string   `json:"height_unit" binding:"omitempty,oneof=cm in"`
	FitnessGoal string   `json:"fitness_goal"`
	Avatar      string   `json:"avatar"`
}

func GetCurrentProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var p models.Profile
	err := database.DB.QueryRow(`
		SELECT id, username, sex, date_of_birth, weight, weight_unit,
		       height, height_unit, fitness_goal, avatar, created_at, updated_at
		FROM profiles WHERE id = ?
	`, userID).Scan(
		&p.ID, &p.Username, &p.Sex, &p.DateOfBirth, &p.Weight, &p.WeightUnit,
		&p.Height, &p.HeightUnit, &p.FitnessGoal, &p.Avatar, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "profile not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	utils.Success(c, &p)
}

// UpdateCurrentProfile updates only the fields present in the request;
// empty strings and nil numbers leave the stored value untouched.
func UpdateCurrentProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			utils.BadRequest(c, "date_of_birth must be YYYY-MM-DD")
			return
		}
		dob = &parsed
	}

	_, err := database.DB.Exec(`
		UPDATE profiles SET
			sex          = COALESCE(NULLIF(?, ''), sex),
			date_of_birth = COALESCE(?, date_of_birth),
			weight       = COALESCE(?, weight),
			weight_unit  = COALESCE(NULLIF(?, ''), weight_unit),
			height       = COALESCE(?, height),
			height_unit  = COALESCE(NULLIF(?, ''), height_unit),
			fitness_goal = COALESCE(NULLIF(?, ''), fitness_goal),
			avatar       = COALESCE(NULLIF(?, ''), avatar),
			updated_at   = ?
		WHERE id = ?
	`, req.Sex, dob, req.Weight, req.WeightUnit, req.Height, req.HeightUnit,
		req.FitnessGoal, req.Avatar, time.Now(), userID)
	if err != nil {
		utils.InternalError(c, "failed to update profile")
		return
	}

	GetCurrentProfile(c)
}
