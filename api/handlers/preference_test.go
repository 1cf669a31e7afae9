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
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fynans/fynans-api/api/handlers"
	"github.com/fynans/fynans-api/databases/mocks"
	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

func prefMockReturning(pref models.NotificationPreference, decodeErr error) *mocks.PreferenceDatabase {
	singleResult := &mocks.SingleResultHelper{}
	if decodeErr != nil {
		singleResult.On("Decode", mock.Anything).Return(decodeErr)
	} else {
		singleResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			*args.Get(0).(*models.NotificationPreference) = pref
		})
	}
	prefDB := &mocks.PreferenceDatabase{}
	prefDB.On("FindOne", mock.Anything, mock.Anything).Return(singleResult)
	return prefDB
}

func TestPreference_GetPreferencesHandlerDefaultsWhenMissing(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/users/user-1/notification-preferences", nil)
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	p := handlers.Preference{Store: &notifications.PreferenceStore{DB: prefMockReturning(models.NotificationPreference{}, mongo.ErrNoDocuments)}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.GetPreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var pref models.NotificationPreference
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pref))
	assert.Equal(t, "user-1", pref.UserID)
	assert.True(t, pref.EnablePushNotifications)
}

func TestPreference_UpdatePreferencesHandler(t *testing.T) {
	body := `{"enablePushNotifications": false, "enableInAppNotifications": true, "enableToastNotifications": true, "quietHoursEnabled": true, "quietHoursStart": "22:00", "quietHoursEnd": "07:00"}`
	req, _ := http.NewRequest("PUT", "/api/v1/users/user-1/notification-preferences", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	saved := models.NotificationPreference{UserID: "user-1", EnableInAppNotifications: true, QuietHoursEnabled: true}
	prefDB := prefMockReturning(saved, nil)
	prefDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	p := handlers.Preference{Store: &notifications.PreferenceStore{DB: prefDB}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdatePreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"quietHoursEnabled":true`)
	prefDB.AssertExpectations(t)
}

func TestPreference_UpdatePreferencesHandlerBadBody(t *testing.T) {
	req, _ := http.NewRequest("PUT", "/api/v1/users/user-1/notification-preferences", strings.NewReader("{"))
	req = mux.SetURLVars(req, map[string]string{"user_id": "user-1"})

	p := handlers.Preference{Store: &notifications.PreferenceStore{DB: &mocks.PreferenceDatabase{}}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(p.UpdatePreferencesHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
