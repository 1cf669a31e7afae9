package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/fynans/fynans-api/models"
)

func TestRenderTemplate_FamilyInvitationReceived(t *testing.T) {
	tpl := RenderTemplate(models.NotificationTypeFamilyInvitationReceived, bson.M{
		"inviterName": "Ana",
		"familyName":  "The Smiths",
	})

	assert.Equal(t, "Family Invitation", tpl.Title)
	assert.Equal(t, "Ana invited you to join The Smiths", tpl.Message)
	assert.Equal(t, "families/invitations", tpl.ActionURL)
}

func TestRenderTemplate_FamilyExpenseCreated(t *testing.T) {
	tpl := RenderTemplate(models.NotificationTypeFamilyExpenseCreated, bson.M{
		"userName":   "Ben",
		"amount":     "42.50",
		"familyName": "The Smiths",
		"expenseId":  "abc123",
	})

	assert.Equal(t, "New Expense", tpl.Title)
	assert.Equal(t, "Ben added an expense of $42.50 in The Smiths", tpl.Message)
	assert.Equal(t, "transactions/abc123", tpl.ActionURL)
}

func TestRenderTemplate_ReceiptProcessed(t *testing.T) {
	withReceipt := RenderTemplate(models.NotificationTypeReceiptProcessingDone, bson.M{"receiptId": "r-9"})
	assert.Equal(t, "Receipt Processed", withReceipt.Title)
	assert.Equal(t, "add?receiptId=r-9", withReceipt.ActionURL)

	withoutReceipt := RenderTemplate(models.NotificationTypeReceiptProcessingDone, bson.M{})
	assert.Empty(t, withoutReceipt.ActionURL)
}

func TestRenderTemplate_BudgetAlert(t *testing.T) {
	tpl := RenderTemplate(models.NotificationTypeBudgetAlert, bson.M{
		"percentage": 85,
		"period":     "monthly",
	})

	assert.Equal(t, "Budget Alert", tpl.Title)
	assert.Equal(t, "You've reached 85% of your monthly budget", tpl.Message)
	assert.Equal(t, "transactions", tpl.ActionURL)
}

func TestRenderTemplate_UnknownTypeFallsBack(t *testing.T) {
	tpl := RenderTemplate("SOMETHING_NEW", bson.M{"irrelevant": true})

	assert.Equal(t, "Notification", tpl.Title)
	assert.Equal(t, "You have a new notification", tpl.Message)
	assert.Empty(t, tpl.ActionURL)
}

func TestRenderTemplate_MissingDataKeys(t *testing.T) {
	// nil payload must not panic, fields render empty
	tpl := RenderTemplate(models.NotificationTypeFamilyMemberJoined, nil)

	assert.Equal(t, "New Family Member", tpl.Title)
	assert.Equal(t, " joined ", tpl.Message)
}
