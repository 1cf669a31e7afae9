package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fynans/fynans-api/api"
	"github.com/fynans/fynans-api/config"
	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

// Preference exported for testing purposes
type Preference struct {
	Store *notifications.PreferenceStore
}

// GetPreferencesHandler returns the user's notification preference, falling
// back to the default preference when none was ever saved
func (p Preference) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pref, err := p.Store.Get(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to get notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(pref)
}

// UpdatePreferencesHandler upserts the user's notification preference
func (p Preference) UpdatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var pref models.NotificationPreference
	if err := json.NewDecoder(r.Body).Decode(&pref); err != nil {
		config.ErrorStatus("failed to decode preference body", http.StatusBadRequest, w, err)
		return
	}
	pref.UserID = userID

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.Store.Upsert(ctx, pref); err != nil {
		config.ErrorStatus("failed to update notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	updated, err := p.Store.Get(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to read back notification preferences", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(updated)
}
