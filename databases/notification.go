package databases

// go generate: mockery --name NotificationDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/models"
)

const notificationCollectionName = "notifications"

// NotificationFilter narrows List queries; zero values mean "no filter"
type NotificationFilter struct {
	UserID     string
	Type       string
	FamilyID   string
	UnreadOnly bool
}

// NotificationDatabase contains the methods to use with the notification database
type NotificationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Notification, error)
	InsertOne(ctx context.Context, notification models.Notification) (InsertOneResultHelper, error)
	List(ctx context.Context, filter NotificationFilter, limit, page int) ([]models.Notification, int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error)
}

type notificationDatabase struct {
	db DatabaseHelper
}

// NewNotificationDatabase initializes a new instance of notification database with the provided db connection
func NewNotificationDatabase(db DatabaseHelper) NotificationDatabase {
	return &notificationDatabase{
		db: db,
	}
}

func (n *notificationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Notification, error) {
	notification := &models.Notification{}
	err := n.db.Collection(notificationCollectionName).FindOne(ctx, filter, opts...).Decode(notification)
	if err != nil {
		return nil, err
	}
	return notification, nil
}

func (n *notificationDatabase) InsertOne(ctx context.Context, notification models.Notification) (InsertOneResultHelper, error) {
	return n.db.Collection(notificationCollectionName).InsertOne(ctx, notification)
}

func (n *notificationDatabase) List(ctx context.Context, filter NotificationFilter, limit, page int) ([]models.Notification, int64, error) {
	query := bson.M{"userId": filter.UserID}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.FamilyID != "" {
		query["familyId"] = filter.FamilyID
	}
	if filter.UnreadOnly {
		query["isRead"] = false
	}

	coll := n.db.Collection(notificationCollectionName)
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := newMongoPaginate(limit, page).getPaginatedOpts()
	opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	var notifications []models.Notification
	if err := cur.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (n *notificationDatabase) CountUnread(ctx context.Context, userID string) (int64, error) {
	return n.db.Collection(notificationCollectionName).CountDocuments(ctx, bson.M{"userId": userID, "isRead": false})
}

func (n *notificationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return n.db.Collection(notificationCollectionName).UpdateOne(ctx, filter, update, opts...)
}

func (n *notificationDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return n.db.Collection(notificationCollectionName).UpdateMany(ctx, filter, update, opts...)
}

func (n *notificationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (int64, error) {
	return n.db.Collection(notificationCollectionName).DeleteOne(ctx, filter, opts...)
}

func (n *notificationDatabase) Aggregate(ctx context.Context, pipeline interface{}) (CursorHelper, error) {
	return n.db.Collection(notificationCollectionName).Aggregate(ctx, pipeline)
}
