package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types, one per domain event that can reach a user
const (
	NotificationTypeFamilyInvitationSent     = "FAMILY_INVITATION_SENT"
	NotificationTypeFamilyInvitationReceived = "FAMILY_INVITATION_RECEIVED"
	NotificationTypeFamilyInvitationAccepted = "FAMILY_INVITATION_ACCEPTED"
	NotificationTypeFamilyInvitationDeclined = "FAMILY_INVITATION_DECLINED"
	NotificationTypeFamilyMemberJoined       = "FAMILY_MEMBER_JOINED"
	NotificationTypeFamilyMemberLeft         = "FAMILY_MEMBER_LEFT"
	NotificationTypeFamilyExpenseCreated     = "FAMILY_EXPENSE_CREATED"
	NotificationTypeFamilyIncomeCreated      = "FAMILY_INCOME_CREATED"
	NotificationTypeReceiptProcessingDone    = "RECEIPT_PROCESSING_COMPLETE"
	NotificationTypeBudgetAlert              = "TRANSACTION_MILESTONE_BUDGET_ALERT"
	NotificationTypeSpendingLimit            = "TRANSACTION_MILESTONE_SPENDING_LIMIT"
)

// Notification priorities, ordered LOW < MEDIUM < HIGH < URGENT
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
	PriorityUrgent = "URGENT"
)

// Delivery methods a notification can be requested on
const (
	DeliveryMethodInApp = "IN_APP"
	DeliveryMethodPush  = "PUSH"
	DeliveryMethodToast = "TOAST"
)

// Notification holds the structure for the notifications collection in mongo.
// The deliveryMethods field stores the set requested by the caller, not the
// set that was actually dispatched after preference filtering.
type Notification struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"`
	Type            string             `json:"type" bson:"type"`
	Title           string             `json:"title" bson:"title"`
	Message         string             `json:"message" bson:"message"`
	Data            bson.M             `json:"data,omitempty" bson:"data,omitempty"`
	Priority        string             `json:"priority" bson:"priority"`
	DeliveryMethods []string           `json:"deliveryMethods" bson:"deliveryMethods"`
	IsRead          bool               `json:"isRead" bson:"isRead"`
	ActionURL       string             `json:"actionUrl,omitempty" bson:"actionUrl,omitempty"`
	FamilyID        string             `json:"familyId,omitempty" bson:"familyId,omitempty"`
	InvitationID    string             `json:"invitationId,omitempty" bson:"invitationId,omitempty"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// NotificationListResponse is the paginated response for notification list endpoints
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Pagination    Pagination     `json:"pagination"`
}

// Pagination carries paging metadata for list responses
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	Limit        int   `json:"limit"`
}
