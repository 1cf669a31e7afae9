package databases

// go generate: mockery --name DeviceTokenDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/models"
)

const deviceTokenCollectionName = "devicetokens"

// DeviceTokenDatabase contains the methods to use with the device token database
type DeviceTokenDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.DeviceToken, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DeviceToken, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
}

type deviceTokenDatabase struct {
	db DatabaseHelper
}

// NewDeviceTokenDatabase initializes a new instance of device token database with the provided db connection
func NewDeviceTokenDatabase(db DatabaseHelper) DeviceTokenDatabase {
	return &deviceTokenDatabase{
		db: db,
	}
}

func (dt *deviceTokenDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.DeviceToken, error) {
	token := &models.DeviceToken{}
	err := dt.db.Collection(deviceTokenCollectionName).FindOne(ctx, filter, opts...).Decode(token)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (dt *deviceTokenDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DeviceToken, error) {
	cur, err := dt.db.Collection(deviceTokenCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var tokens []models.DeviceToken
	if err := cur.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (dt *deviceTokenDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return dt.db.Collection(deviceTokenCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (dt *deviceTokenDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return dt.db.Collection(deviceTokenCollectionName).DeleteOne(ctx, filter, opts...)
}
