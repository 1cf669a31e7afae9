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

// Device exported for testing purposes
type Device struct {
	Registry *notifications.DeviceRegistry
}

type deviceRequest struct {
	ExpoPushToken string `json:"expoPushToken"`
	Platform      string `json:"platform"`
	DeviceID      string `json:"deviceId"`
	DeviceName    string `json:"deviceName"`
}

// RegisterDeviceHandler registers (or re-registers) an Expo push token for the
// user. Re-registering an existing token re-activates it and moves it to the
// calling user.
func (d Device) RegisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode device body", http.StatusBadRequest, w, err)
		return
	}
	if req.ExpoPushToken == "" {
		config.ErrorStatus("expoPushToken is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	token, err := d.Registry.Register(ctx, userID, req.ExpoPushToken, req.Platform, req.DeviceID, req.DeviceName)
	if err != nil {
		config.ErrorStatus("failed to register device", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(token)
}

// UnregisterDeviceHandler removes the token named in the body, scoped to the
// calling user
func (d Device) UnregisterDeviceHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode device body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := d.Registry.Unregister(ctx, userID, req.ExpoPushToken); err != nil {
		config.ErrorStatus("failed to unregister device", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "unregistered"})
}

// ListDevicesHandler returns the user's active device tokens
func (d Device) ListDevicesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	tokens, err := d.Registry.ListActive(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to list devices", http.StatusInternalServerError, w, err)
		return
	}
	if tokens == nil {
		tokens = []models.DeviceToken{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(tokens)
}
