package notifications

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/models"
)

// CreateRequest carries everything a domain event needs to raise a notification
type CreateRequest struct {
	UserID          string   `json:"userId"`
	Type            string   `json:"type"`
	Data            bson.M   `json:"data,omitempty"`
	DeliveryMethods []string `json:"deliveryMethods"`
	Priority        string   `json:"priority"`
	FamilyID        string   `json:"familyId,omitempty"`
	InvitationID    string   `json:"invitationId,omitempty"`
}

// Engine orchestrates notification creation: it resolves the channels a user
// actually receives an event on, persists the notification, and fans it out.
type Engine struct {
	Prefs      *PreferenceStore
	DB         databases.NotificationDatabase
	Dispatcher *Dispatcher

	// Now is swappable for quiet-hours tests; nil means time.Now
	Now func() time.Time
}

// Create resolves the effective channels for the request, persists the
// notification and dispatches it. The stored row keeps the caller's requested
// delivery methods; the filtered set only decides what gets sent. Persistence
// failure is the only error returned — dispatch problems are logged and
// swallowed so a best-effort notification never fails its triggering domain
// action.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*models.Notification, error) {
	if req.UserID == "" || req.Type == "" {
		return nil, fmt.Errorf("notification request requires userId and type")
	}
	if len(req.DeliveryMethods) == 0 {
		req.DeliveryMethods = []string{models.DeliveryMethodInApp}
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}

	pref, err := e.Prefs.Get(ctx, req.UserID)
	if err != nil {
		// a broken preference read must not lose the notification
		zap.S().Errorw("failed to load notification preference, using defaults",
			"userId", req.UserID, "error", err)
		pref = models.DefaultNotificationPreference(req.UserID)
	}

	effective := ResolveChannels(pref, req.Type, req.DeliveryMethods)

	if IsQuietTime(pref, e.now()) && req.Priority != models.PriorityUrgent {
		// quiet hours mute the interruptions, never the in-app history
		effective = removeChannel(effective, models.DeliveryMethodPush, models.DeliveryMethodToast)
	}

	template := RenderTemplate(req.Type, req.Data)
	now := primitive.NewDateTimeFromTime(e.now())

	notification := models.Notification{
		UserID:          req.UserID,
		Type:            req.Type,
		Title:           template.Title,
		Message:         template.Message,
		Data:            req.Data,
		Priority:        req.Priority,
		DeliveryMethods: req.DeliveryMethods,
		IsRead:          false,
		ActionURL:       template.ActionURL,
		FamilyID:        req.FamilyID,
		InvitationID:    req.InvitationID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res, err := e.DB.InsertOne(ctx, notification)
	if err != nil {
		return nil, fmt.Errorf("failed to persist notification: %w", err)
	}
	if id, ok := res.Decode().(primitive.ObjectID); ok {
		notification.ID = id
	}

	e.Dispatcher.Dispatch(ctx, effective, notification)

	return &notification, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
