package models

import (
	"time"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// TravelRequest is a student's intent to travel a route at a given date and time
type TravelRequest struct {
	ID               string           `json:"id" bson:"id"`
	UserID           string           `json:"user_id" bson:"user_id"`
	Route            Route            `json:"route" bson:"route"`
	Date             string           `json:"date" bson:"date"` // YYYY-MM-DD
	Time             string           `json:"time" bson:"time"` // HH:MM
	VehicleType      VehicleType      `json:"vehicle_type" bson:"vehicle_type"`
	GroupSize        int              `json:"group_size" bson:"group_size"` // 2..4
	GenderPreference GenderPreference `json:"gender_preference" bson:"gender_preference"`
	Status           RequestStatus    `json:"status" bson:"status"`
	CreatedAt        time.Time        `json:"created_at" bson:"created_at"`
}

func (r TravelRequest) Key() string { return r.ID }

// DepartureAt returns the scheduled departure instant in loc
func (r TravelRequest) DepartureAt(loc *time.Location) (time.Time, error) {
	return utils.CombineDateClock(r.Date, r.Time, loc)
}

const (
	MinGroupSize = 2
	MaxGroupSize = 4
)
