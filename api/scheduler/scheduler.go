package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fynans/fynans-api/config"
	"github.com/fynans/fynans-api/databases"
	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
	templates "github.com/fynans/fynans-api/templates/html"
)

// Alert thresholds as percentage of the budget limit. Crossing the warning
// threshold raises a budget alert, crossing the limit raises a spending limit
// alert. LastAlertedPct on the budget row keeps a crossing from firing twice.
const (
	budgetWarnPct  = 80
	budgetLimitPct = 100
)

// Scheduler handles periodic background jobs for the notification service
type Scheduler struct {
	cron     *cron.Cron
	BudgetDB databases.BudgetDatabase
	NotifDB  databases.NotificationDatabase
	UserDB   databases.UserDatabase
	Engine   *notifications.Engine
	Config   *config.Config
}

// New creates a new scheduler instance
func New(conf *config.Config, db databases.DatabaseHelper, engine *notifications.Engine) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		BudgetDB: databases.NewBudgetDatabase(db),
		NotifDB:  databases.NewNotificationDatabase(db),
		UserDB:   databases.NewUserDatabase(db),
		Engine:   engine,
		Config:   conf,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Scan budgets for threshold crossings every hour
	_, err := s.cron.AddFunc("0 * * * *", s.processBudgetAlerts)
	if err != nil {
		zap.S().Errorw("failed to register budget alert job", "error", err)
	}

	// Send the unread digest email weekly on Monday at 8 AM UTC
	_, err = s.cron.AddFunc("0 8 * * 1", s.processWeeklyDigest)
	if err != nil {
		zap.S().Errorw("failed to register weekly digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Notification scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Notification scheduler stopped")
}

// processBudgetAlerts raises a notification for every budget whose spent
// percentage crossed a threshold since the last alert
func (s *Scheduler) processBudgetAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	zap.S().Info("Running budget alert job")

	budgets, err := s.BudgetDB.Find(ctx, bson.M{"limit": bson.M{"$gt": 0}})
	if err != nil {
		zap.S().Errorw("failed to find budgets", "error", err)
		return
	}

	for _, budget := range budgets {
		pct := int(budget.Spent / budget.Limit * 100)

		notificationType := ""
		priority := ""
		switch {
		case pct >= budgetLimitPct && budget.LastAlertedPct < budgetLimitPct:
			notificationType = models.NotificationTypeSpendingLimit
			priority = models.PriorityUrgent
		case pct >= budgetWarnPct && budget.LastAlertedPct < budgetWarnPct:
			notificationType = models.NotificationTypeBudgetAlert
			priority = models.PriorityHigh
		default:
			continue
		}

		_, err := s.Engine.Create(ctx, notifications.CreateRequest{
			UserID:   budget.UserID,
			Type:     notificationType,
			Priority: priority,
			FamilyID: budget.FamilyID,
			DeliveryMethods: []string{
				models.DeliveryMethodInApp,
				models.DeliveryMethodPush,
				models.DeliveryMethodToast,
			},
			Data: bson.M{
				"budgetId":   budget.ID.Hex(),
				"category":   budget.Category,
				"period":     budget.Period,
				"limit":      budget.Limit,
				"spent":      budget.Spent,
				"percentage": pct,
			},
		})
		if err != nil {
			zap.S().Errorw("failed to create budget alert notification",
				"budgetId", budget.ID.Hex(), "error", err)
			continue
		}

		_, err = s.BudgetDB.UpdateOne(ctx,
			bson.M{"_id": budget.ID},
			bson.M{"$set": bson.M{
				"lastAlertedPct": pct,
				"updatedAt":      primitive.NewDateTimeFromTime(time.Now()),
			}})
		if err != nil {
			zap.S().Errorw("failed to update budget alert marker",
				"budgetId", budget.ID.Hex(), "error", err)
		}
	}
}

type digestRow struct {
	UserID      string `bson:"_id"`
	Count       int64  `bson:"count"`
	LatestTitle string `bson:"latestTitle"`
}

// processWeeklyDigest emails every user with unread notifications a summary.
// Users with zero unread are skipped.
func (s *Scheduler) processWeeklyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	zap.S().Info("Running weekly digest job")

	// Group unread notifications per user
	pipeline := []bson.M{
		{"$match": bson.M{"isRead": false}},
		{"$sort": bson.M{"createdAt": -1}},
		{"$group": bson.M{
			"_id":         "$userId",
			"count":       bson.M{"$sum": 1},
			"latestTitle": bson.M{"$first": "$title"},
		}},
	}
	cursor, err := s.NotifDB.Aggregate(ctx, pipeline)
	if err != nil {
		zap.S().Errorw("failed to aggregate unread notifications", "error", err)
		return
	}

	var rows []digestRow
	if err := cursor.All(ctx, &rows); err != nil {
		zap.S().Errorw("failed to decode unread aggregation", "error", err)
		return
	}

	sent := 0
	for _, row := range rows {
		if row.Count == 0 {
			continue
		}

		uID, err := primitive.ObjectIDFromHex(row.UserID)
		if err != nil {
			zap.S().Warnw("skipping digest for malformed userId", "userId", row.UserID)
			continue
		}
		user, err := s.UserDB.FindOne(ctx, bson.M{"_id": uID})
		if err != nil {
			zap.S().Warnw("failed to find user for digest", "userId", row.UserID, "error", err)
			continue
		}

		subject := fmt.Sprintf("You have %d unread notifications", row.Count)
		htmlContent := templates.RenderDigestEmail(user.FullName, row.Count, row.LatestTitle, s.Config.BaseURL)

		if err := s.sendEmail(user.FullName, user.Email, subject, htmlContent); err != nil {
			zap.S().Errorw("failed to send digest email", "userId", row.UserID, "error", err)
			continue
		}
		sent++
	}

	zap.S().Infow("Weekly digest job finished", "emailsSent", sent)
}

// sendEmail sends a single email via sendgrid
func (s *Scheduler) sendEmail(toName, toEmail, subject, htmlContent string) error {
	from := mail.NewEmail("Fynans", s.Config.DigestFromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlContent)
	client := sendgrid.NewSendClient(s.Config.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid status %d", response.StatusCode)
	}
	return nil
}
