package models

import "time"

// User represents a registered student
type User struct {
	ID                 string    `json:"id" bson:"id"`
	Email              string    `json:"email" bson:"email"`
	RegistrationNumber string    `json:"vit_registration_number" bson:"vit_registration_number"`
	Name               string    `json:"name" bson:"name"`
	Username           string    `json:"username" bson:"username"`
	Phone              string    `json:"phone" bson:"phone"`
	Gender             Gender    `json:"gender" bson:"gender"`
	PasswordHash       string    `json:"password_hash" bson:"password_hash"` // never exposed through dto
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

func (u User) Key() string { return u.ID }
