package notifications

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/fynans/fynans-api/models"
)

// Template is the rendered title, message and deep link for a notification
type Template struct {
	Title     string
	Message   string
	ActionURL string
}

// RenderTemplate builds the user-facing text for a notification from its type
// and payload. Unknown types get a generic fallback rather than an error.
func RenderTemplate(notificationType string, data bson.M) Template {
	str := func(key string) string {
		if v, ok := data[key].(string); ok {
			return v
		}
		return ""
	}

	switch notificationType {
	case models.NotificationTypeFamilyInvitationSent:
		return Template{
			Title:     "Invitation Sent",
			Message:   fmt.Sprintf("You invited %s to join %s", str("inviteeEmail"), str("familyName")),
			ActionURL: fmt.Sprintf("families/%s", str("familyId")),
		}

	case models.NotificationTypeFamilyInvitationReceived:
		return Template{
			Title:     "Family Invitation",
			Message:   fmt.Sprintf("%s invited you to join %s", str("inviterName"), str("familyName")),
			ActionURL: "families/invitations",
		}

	case models.NotificationTypeFamilyInvitationAccepted:
		return Template{
			Title:     "Invitation Accepted",
			Message:   fmt.Sprintf("%s accepted your invitation to %s", str("inviteeName"), str("familyName")),
			ActionURL: fmt.Sprintf("families/%s", str("familyId")),
		}

	case models.NotificationTypeFamilyInvitationDeclined:
		return Template{
			Title:   "Invitation Declined",
			Message: fmt.Sprintf("%s declined your invitation to %s", str("inviteeName"), str("familyName")),
		}

	case models.NotificationTypeFamilyMemberJoined:
		return Template{
			Title:     "New Family Member",
			Message:   fmt.Sprintf("%s joined %s", str("memberName"), str("familyName")),
			ActionURL: fmt.Sprintf("families/%s", str("familyId")),
		}

	case models.NotificationTypeFamilyMemberLeft:
		return Template{
			Title:     "Member Left",
			Message:   fmt.Sprintf("%s left %s", str("memberName"), str("familyName")),
			ActionURL: fmt.Sprintf("families/%s", str("familyId")),
		}

	case models.NotificationTypeFamilyExpenseCreated:
		return Template{
			Title:     "New Expense",
			Message:   fmt.Sprintf("%s added an expense of $%s in %s", str("userName"), str("amount"), str("familyName")),
			ActionURL: fmt.Sprintf("transactions/%s", str("expenseId")),
		}

	case models.NotificationTypeFamilyIncomeCreated:
		return Template{
			Title:     "New Income",
			Message:   fmt.Sprintf("%s added income of $%s in %s", str("userName"), str("amount"), str("familyName")),
			ActionURL: fmt.Sprintf("transactions/%s?type=income", str("incomeId")),
		}

	case models.NotificationTypeReceiptProcessingDone:
		t := Template{
			Title:   "Receipt Processed",
			Message: "Your receipt has been processed successfully",
		}
		if receiptID := str("receiptId"); receiptID != "" {
			t.ActionURL = fmt.Sprintf("add?receiptId=%s", receiptID)
		}
		return t

	case models.NotificationTypeBudgetAlert:
		return Template{
			Title:     "Budget Alert",
			Message:   fmt.Sprintf("You've reached %v%% of your %s budget", data["percentage"], str("period")),
			ActionURL: "transactions",
		}

	case models.NotificationTypeSpendingLimit:
		return Template{
			Title:     "Spending Limit",
			Message:   fmt.Sprintf("You've exceeded your spending limit for %s", str("category")),
			ActionURL: "transactions",
		}

	default:
		return Template{
			Title:   "Notification",
			Message: "You have a new notification",
		}
	}
}
