package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fynans/fynans-api/api"
	"github.com/fynans/fynans-api/config"
	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

// Notification exported for testing purposes
type Notification struct {
	DB     databases.NotificationDatabase
	Engine *notifications.Engine
}

// CreateNotificationHandler raises a notification through the fan-out engine.
// Domain services and the scheduler drive this endpoint.
func (n Notification) CreateNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req notifications.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode notification request", http.StatusBadRequest, w, err)
		return
	}

	notification, err := n.Engine.Create(r.Context(), req)
	if err != nil {
		config.ErrorStatus("failed to create notification", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(notification)
}

// GetUserNotificationsHandler returns a page of the user's notifications,
// newest first. Supports unreadOnly, type and familyId filters.
func (n Notification) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || Limit < 1 {
		zap.S().Warnf("limit not set, using default of %v, err: %v", 10, err)
		Limit = 10
	}
	Page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || Page < 0 {
		Page = 0
	}

	filter := databases.NotificationFilter{
		UserID:   userID,
		Type:     r.URL.Query().Get("type"),
		FamilyID: r.URL.Query().Get("familyId"),
	}
	if unreadOnly, err := strconv.ParseBool(r.URL.Query().Get("unreadOnly")); err == nil {
		filter.UnreadOnly = unreadOnly
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, totalCount, err := n.DB.List(ctx, filter, Limit, Page)
	if err != nil {
		config.ErrorStatus("failed to get notifications", http.StatusInternalServerError, w, err)
		return
	}

	// Because the frontend requires that we return an empty array
	// instead of null
	if dbResp == nil {
		dbResp = []models.Notification{}
	}

	totalPages := int(totalCount) / Limit
	if int(totalCount)%Limit != 0 {
		totalPages++
	}

	response := models.NotificationListResponse{
		Notifications: dbResp,
		Pagination: models.Pagination{
			CurrentPage:  Page,
			TotalPages:   totalPages,
			TotalRecords: totalCount,
			Limit:        Limit,
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// UnreadCountHandler returns the user's unread notification count
func (n Notification) UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	count, err := n.DB.CountUnread(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to get unread count", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int64{"count": count})
}

// MarkNotificationAsReadHandler marks a single notification as read. The
// userId query parameter scopes the update so users can only touch their own
// rows.
func (n Notification) MarkNotificationAsReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]
	userID := r.URL.Query().Get("userId")

	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("invalid notification ID", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"isRead":    true,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := n.DB.UpdateOne(ctx, bson.M{"_id": nID, "userId": userID}, update)
	if err != nil {
		config.ErrorStatus("failed to mark notification as read", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "read"})
}

// MarkAllNotificationsAsReadHandler marks every unread notification for the
// user as read
func (n Notification) MarkAllNotificationsAsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	update := bson.M{"$set": bson.M{
		"isRead":    true,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	res, err := n.DB.UpdateMany(ctx, bson.M{"userId": userID, "isRead": false}, update)
	if err != nil {
		config.ErrorStatus("failed to mark notifications as read", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int64{"modified": res.ModifiedCount})
}

// DeleteNotificationHandler deletes a notification owned by the calling user
func (n Notification) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]
	userID := r.URL.Query().Get("userId")

	nID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		config.ErrorStatus("invalid notification ID", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	deleted, err := n.DB.DeleteOne(ctx, bson.M{"_id": nID, "userId": userID})
	if err != nil {
		config.ErrorStatus("failed to delete notification", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatus("notification not found", http.StatusNotFound, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
}
