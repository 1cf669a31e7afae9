package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fynans/fynans-api/api/handlers"
	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/databases/mocks"
	"github.com/fynans/fynans-api/models"
)

func TestNotification_GetUserNotificationsHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/users/user-1/notifications?limit=2&page=0&unreadOnly=true", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})
	req.Header.Set("Authorization", "Bearer abc123")

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("List", mock.Anything, databases.NotificationFilter{UserID: "user-1", UnreadOnly: true}, 2, 0).
		Return([]models.Notification{
			{UserID: "user-1", Type: models.NotificationTypeFamilyExpenseCreated, Title: "New Expense"},
			{UserID: "user-1", Type: models.NotificationTypeBudgetAlert, Title: "Budget Alert"},
		}, int64(5), nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.GetUserNotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp models.NotificationListResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, int64(5), resp.Pagination.TotalRecords)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestNotification_GetUserNotificationsHandlerEmptyArray(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/users/user-1/notifications", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("List", mock.Anything, mock.Anything, 10, 0).Return(nil, int64(0), nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.GetUserNotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"notifications":[]`)
}

func TestNotification_GetUserNotificationsHandlerZeroLimit(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/users/user-1/notifications?limit=0", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	// a non-positive limit falls back to the default instead of dividing by zero
	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("List", mock.Anything, mock.Anything, 10, 0).Return(nil, int64(0), nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.GetUserNotificationsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	notifDB.AssertExpectations(t)
}

func TestNotification_UnreadCountHandler(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/users/user-1/notifications/unread-count", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("CountUnread", mock.Anything, "user-1").Return(int64(7), nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.UnreadCountHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":7`)
}

func TestNotification_MarkNotificationAsReadHandlerInvalidID(t *testing.T) {
	req, _ := http.NewRequest("PUT", "/api/v1/notifications/1234/read", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": "1234"})

	n := handlers.Notification{DB: &mocks.NotificationDatabase{}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationAsReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var errBody models.ErrorMessageResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &errBody))
	assert.Contains(t, errBody.Response, "invalid notification ID")
}

func TestNotification_MarkNotificationAsReadHandlerNotFound(t *testing.T) {
	id := primitive.NewObjectID()
	req, _ := http.NewRequest("PUT", "/api/v1/notifications/"+id.Hex()+"/read?userId=user-2", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": id.Hex()})

	// scoping by userId means another user's row never matches
	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkNotificationAsReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotification_MarkAllNotificationsAsReadHandler(t *testing.T) {
	req, _ := http.NewRequest("PUT", "/api/v1/users/user-1/notifications/read-all", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("UpdateMany", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 3, ModifiedCount: 3}, nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.MarkAllNotificationsAsReadHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"modified":3`)
}

func TestNotification_DeleteNotificationHandler(t *testing.T) {
	id := primitive.NewObjectID()
	req, _ := http.NewRequest("DELETE", "/api/v1/notifications/"+id.Hex()+"?userId=user-1", nil)
	req = mux.SetURLVars(req, map[string]string{"notification_id": id.Hex()})

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("DeleteOne", mock.Anything, mock.Anything).Return(int64(1), nil)

	n := handlers.Notification{DB: notifDB}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.DeleteNotificationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"deleted":1`)
}

func TestNotification_CreateNotificationHandlerBadBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/v1/notifications", strings.NewReader(`{"userId": `))

	n := handlers.Notification{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(n.CreateNotificationHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
