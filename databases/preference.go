package databases

// go generate: mockery --name PreferenceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/models"
)

const preferenceCollectionName = "notificationpreferences"

// PreferenceDatabase contains the methods to use with the notification preference database
type PreferenceDatabase interface {
	FindOne(ctx context.Context, filter interface{}) SingleResultHelper
	InsertOne(ctx context.Context, preference models.NotificationPreference) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type preferenceDatabase struct {
	db DatabaseHelper
}

// NewPreferenceDatabase initializes a new instance of preference database with the provided db connection
func NewPreferenceDatabase(db DatabaseHelper) PreferenceDatabase {
	return &preferenceDatabase{
		db: db,
	}
}

func (p *preferenceDatabase) FindOne(ctx context.Context, filter interface{}) SingleResultHelper {
	return p.db.Collection(preferenceCollectionName).FindOne(ctx, filter)
}

func (p *preferenceDatabase) InsertOne(ctx context.Context, preference models.NotificationPreference) (InsertOneResultHelper, error) {
	return p.db.Collection(preferenceCollectionName).InsertOne(ctx, preference)
}

func (p *preferenceDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return p.db.Collection(preferenceCollectionName).UpdateOne(ctx, filter, update, opts...)
}
