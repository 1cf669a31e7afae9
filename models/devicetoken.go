package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DeviceToken holds the structure for the devicetokens collection in mongo.
// The expoPushToken is globally unique; re-registering the same token updates
// the existing row instead of creating a duplicate.
type DeviceToken struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID        string             `json:"userId" bson:"userId"`
	ExpoPushToken string             `json:"expoPushToken" bson:"expoPushToken"` // e.g. "ExponentPushToken[xxx]"
	Platform      string             `json:"platform" bson:"platform"`           // "ios" or "android"
	DeviceID      string             `json:"deviceId,omitempty" bson:"deviceId,omitempty"`
	DeviceName    string             `json:"deviceName,omitempty" bson:"deviceName,omitempty"`
	IsActive      bool               `json:"isActive" bson:"isActive"`
	LastUsed      primitive.DateTime `json:"lastUsed" bson:"lastUsed"`
	CreatedAt     primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt     primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
