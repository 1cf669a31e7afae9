package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Budget holds the structure for the budgets collection in mongo. Rows are
// written by the transaction service; this service only reads them to decide
// when a budget alert notification is due.
type Budget struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID         string             `json:"userId" bson:"userId"`
	FamilyID       string             `json:"familyId,omitempty" bson:"familyId,omitempty"`
	Period         string             `json:"period" bson:"period"` // "weekly" or "monthly"
	Category       string             `json:"category,omitempty" bson:"category,omitempty"`
	Limit          float64            `json:"limit" bson:"limit"`
	Spent          float64            `json:"spent" bson:"spent"`
	LastAlertedPct int                `json:"lastAlertedPct" bson:"lastAlertedPct"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
