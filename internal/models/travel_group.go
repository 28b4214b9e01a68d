package models

import (
	"slices"
	"time"
)

// ChatMessage is a single entry of a group's chat log
type ChatMessage struct {
	ID        string    `json:"id" bson:"id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"` // author name at posting time
	Message   string    `json:"message" bson:"message"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// TravelGroup is a set of students sharing one ride
type TravelGroup struct {
	ID               string        `json:"id" bson:"id"`
	RequestID        string        `json:"request_id" bson:"request_id"`
	Members          []string      `json:"members" bson:"members"`
	Route            Route         `json:"route" bson:"route"`
	Date             string        `json:"date" bson:"date"`
	Time             string        `json:"time" bson:"time"`
	VehicleType      VehicleType   `json:"vehicle_type" bson:"vehicle_type"`
	Status           GroupStatus   `json:"status" bson:"status"`
	ConfirmedMembers []string      `json:"confirmed_members,omitempty" bson:"confirmed_members,omitempty"`
	ChatMessages     []ChatMessage `json:"chat_messages,omitempty" bson:"chat_messages,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
}

func (g TravelGroup) Key() string { return g.ID }

func (g TravelGroup) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// IsActive reports whether the group has not been retired
func (g TravelGroup) IsActive() bool {
	return g.Status != GroupCompleted
}

// IsFullyConfirmed reports whether every member has confirmed and the
// group has at least two members.
func (g TravelGroup) IsFullyConfirmed() bool {
	if len(g.Members) < MinGroupSize {
		return false
	}
	for _, m := range g.Members {
		if !slices.Contains(g.ConfirmedMembers, m) {
			return false
		}
	}
	return true
}

// FindActiveGroup returns the first non-completed group containing userID
func FindActiveGroup(groups []TravelGroup, userID string) (TravelGroup, bool) {
	for _, g := range groups {
		if g.IsActive() && g.HasMember(userID) {
			return g, true
		}
	}
	return TravelGroup{}, false
}

// Creator is the member who formed the group, the first one listed
func (g TravelGroup) Creator() string {
	if len(g.Members) == 0 {
		return ""
	}
	return g.Members[0]
}
