package models

import "time"

type Profile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Password    string     `json:"-"`
	Sex         string     `json:"sex,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	WeightUnit  string     `json:"weight_unit,omitempty"`
	Height      *float64   `json:"height,omitempty"`
	HeightUnit  string     `json:"height_unit,omitempty"`
	FitnessGoal string     `json:"fitness_goal,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProfileSummary is the public snapshot embedded in search results,
// friend requests and friendships.
type ProfileSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	FitnessGoal string `json:"fitness_goal,omitempty"`
}

func (p *Profile) ToSummary() *ProfileSummary {
	return &ProfileSummary{
		ID:          p.ID,
		Username:    p.Username,
		Avatar:      p.Avatar,
		FitnessGoal: p.FitnessGoal,
	}
}
