package notifications

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/models"
)

// DeviceRegistry manages the push-capable devices registered for each user
type DeviceRegistry struct {
	DB databases.DeviceTokenDatabase
}

// Register upserts a device token keyed by its Expo push token. Registering a
// token that already exists reactivates it and moves it to the given user
// rather than creating a duplicate row.
func (r *DeviceRegistry) Register(ctx context.Context, userID, expoPushToken, platform, deviceID, deviceName string) (*models.DeviceToken, error) {
	now := primitive.NewDateTimeFromTime(time.Now())

	update := bson.M{
		"$set": bson.M{
			"userId":     userID,
			"platform":   platform,
			"deviceId":   deviceID,
			"deviceName": deviceName,
			"isActive":   true,
			"lastUsed":   now,
			"updatedAt":  now,
		},
		"$setOnInsert": bson.M{
			"expoPushToken": expoPushToken,
			"createdAt":     now,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.DB.UpdateOne(ctx, bson.M{"expoPushToken": expoPushToken}, update, opts); err != nil {
		return nil, err
	}

	return r.DB.FindOne(ctx, bson.M{"expoPushToken": expoPushToken})
}

// Unregister removes a device token owned by the given user
func (r *DeviceRegistry) Unregister(ctx context.Context, userID, expoPushToken string) error {
	_, err := r.DB.DeleteOne(ctx, bson.M{"expoPushToken": expoPushToken, "userId": userID})
	return err
}

// ListActive returns every active device token registered for the user
func (r *DeviceRegistry) ListActive(ctx context.Context, userID string) ([]models.DeviceToken, error) {
	return r.DB.Find(ctx, bson.M{"userId": userID, "isActive": true})
}

// Deactivate flips a token inactive after the push provider reports it as
// permanently invalid
func (r *DeviceRegistry) Deactivate(ctx context.Context, tokenID primitive.ObjectID) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	_, err := r.DB.UpdateOne(ctx, bson.M{"_id": tokenID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}})
	return err
}

// TouchLastUsed records a successful send on the token
func (r *DeviceRegistry) TouchLastUsed(ctx context.Context, tokenID primitive.ObjectID) error {
	now := primitive.NewDateTimeFromTime(time.Now())
	_, err := r.DB.UpdateOne(ctx, bson.M{"_id": tokenID},
		bson.M{"$set": bson.M{"lastUsed": now, "updatedAt": now}})
	return err
}
