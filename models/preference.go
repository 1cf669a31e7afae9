package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NotificationPreference holds the structure for the notificationpreferences
// collection in mongo. At most one row exists per user; a missing row means
// all channels enabled and quiet hours disabled.
type NotificationPreference struct {
	ID                       primitive.ObjectID        `json:"_id" bson:"_id,omitempty"`
	UserID                   string                    `json:"userId" bson:"userId"`
	EnablePushNotifications  bool                      `json:"enablePushNotifications" bson:"enablePushNotifications"`
	EnableInAppNotifications bool                      `json:"enableInAppNotifications" bson:"enableInAppNotifications"`
	EnableToastNotifications bool                      `json:"enableToastNotifications" bson:"enableToastNotifications"`
	QuietHoursEnabled        bool                      `json:"quietHoursEnabled" bson:"quietHoursEnabled"`
	QuietHoursStart          string                    `json:"quietHoursStart" bson:"quietHoursStart"` // "HH:MM", 24h
	QuietHoursEnd            string                    `json:"quietHoursEnd" bson:"quietHoursEnd"`     // "HH:MM", 24h
	TypePreferences          map[string]TypePreference `json:"typePreferences,omitempty" bson:"typePreferences,omitempty"`
	CreatedAt                primitive.DateTime        `json:"createdAt" bson:"createdAt"`
	UpdatedAt                primitive.DateTime        `json:"updatedAt" bson:"updatedAt"`
}

// TypePreference is a per-notification-type override. When present for a type,
// its channel list replaces the globally enabled set for that type.
type TypePreference struct {
	Channels []string `json:"channels" bson:"channels"`
}

// DefaultNotificationPreference returns the preference used when a user has
// never saved one: every channel on, quiet hours off.
func DefaultNotificationPreference(userID string) NotificationPreference {
	return NotificationPreference{
		UserID:                   userID,
		EnablePushNotifications:  true,
		EnableInAppNotifications: true,
		EnableToastNotifications: true,
		QuietHoursEnabled:        false,
		TypePreferences:          map[string]TypePreference{},
	}
}
