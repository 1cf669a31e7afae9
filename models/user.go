package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the subset of the users collection this service reads. Account
// management lives in the main app; we only need credentials for token
// issuance and an email address for the digest mailer.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	FullName  string             `json:"fullName" bson:"fullName"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
