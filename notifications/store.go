package notifications

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/models"
)

// PreferenceStore reads per-user notification preferences, defaulting when a
// user never saved one
type PreferenceStore struct {
	DB databases.PreferenceDatabase
}

// Get returns the user's stored preference or the default preference when no
// row exists. A missing row is not an error.
func (s *PreferenceStore) Get(ctx context.Context, userID string) (models.NotificationPreference, error) {
	var pref models.NotificationPreference
	err := s.DB.FindOne(ctx, bson.M{"userId": userID}).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.DefaultNotificationPreference(userID), nil
		}
		return models.NotificationPreference{}, err
	}
	return pref, nil
}

// Upsert writes the user's preference, creating the row on first save
func (s *PreferenceStore) Upsert(ctx context.Context, pref models.NotificationPreference) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{
		"$set": bson.M{
			"enableInAppNotifications": pref.EnableInAppNotifications,
			"enablePushNotifications":  pref.EnablePushNotifications,
			"enableToastNotifications": pref.EnableToastNotifications,
			"quietHoursEnabled":        pref.QuietHoursEnabled,
			"quietHoursStart":          pref.QuietHoursStart,
			"quietHoursEnd":            pref.QuietHoursEnd,
			"typePreferences":          pref.TypePreferences,
			"updatedAt":                now,
		},
		"$setOnInsert": bson.M{
			"userId":    pref.UserID,
			"createdAt": now,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.DB.UpdateOne(ctx, bson.M{"userId": pref.UserID}, update, opts)
	return err
}
