package models

import "time"

// GroupRequest is one side's offer to travel together, answered by the other side
type GroupRequest struct {
	ID          string          `json:"id" bson:"id"`
	FromUserID  string          `json:"from_user_id" bson:"from_user_id"`
	ToUserID    string          `json:"to_user_id" bson:"to_user_id"`
	RequestType RequestType     `json:"request_type" bson:"request_type"`
	GroupID     string          `json:"group_id,omitempty" bson:"group_id,omitempty"`
	Status      HandshakeStatus `json:"status" bson:"status"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}

func (r GroupRequest) Key() string { return r.ID }
