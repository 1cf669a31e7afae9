package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fynans/fynans-api/config"
	"github.com/fynans/fynans-api/databases/mocks"
	"github.com/fynans/fynans-api/models"
	"github.com/fynans/fynans-api/notifications"
)

type fakeEmitter struct{}

func (fakeEmitter) EmitToUser(userID, event string, payload interface{}) {}
func (fakeEmitter) IsOnline(userID string) bool                          { return false }

// newTestEngine wires an engine whose preference read misses (defaults apply)
// and whose push channel finds no devices, so dispatch never leaves the process.
func newTestEngine(notifDB *mocks.NotificationDatabase) *notifications.Engine {
	prefResult := &mocks.SingleResultHelper{}
	prefResult.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	prefDB := &mocks.PreferenceDatabase{}
	prefDB.On("FindOne", mock.Anything, mock.Anything).Return(prefResult)

	deviceDB := &mocks.DeviceTokenDatabase{}
	deviceDB.On("Find", mock.Anything, mock.Anything).Return(nil, nil)

	return &notifications.Engine{
		Prefs: &notifications.PreferenceStore{DB: prefDB},
		DB:    notifDB,
		Dispatcher: &notifications.Dispatcher{
			Devices: &notifications.DeviceRegistry{DB: deviceDB},
			Emitter: fakeEmitter{},
		},
	}
}

func insertedID(id primitive.ObjectID) *mocks.InsertOneResultHelper {
	res := &mocks.InsertOneResultHelper{}
	res.On("Decode").Return(id)
	return res
}

func TestScheduler_ProcessBudgetAlertsWarnCrossing(t *testing.T) {
	budget := models.Budget{
		ID:       primitive.NewObjectID(),
		UserID:   "user-1",
		FamilyID: "family-1",
		Period:   "monthly",
		Category: "groceries",
		Limit:    200,
		Spent:    170,
	}

	budgetDB := &mocks.BudgetDatabase{}
	budgetDB.On("Find", mock.Anything, mock.Anything).Return([]models.Budget{budget}, nil)
	budgetDB.On("UpdateOne", mock.Anything, bson.M{"_id": budget.ID}, mock.MatchedBy(func(update interface{}) bool {
		set := update.(bson.M)["$set"].(bson.M)
		return set["lastAlertedPct"] == 85
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationTypeBudgetAlert &&
			n.Priority == models.PriorityHigh &&
			n.UserID == "user-1" &&
			n.Data["percentage"] == 85
	})).Return(insertedID(primitive.NewObjectID()), nil)

	s := &Scheduler{
		BudgetDB: budgetDB,
		Engine:   newTestEngine(notifDB),
		Config:   &config.Config{},
	}
	s.processBudgetAlerts()

	notifDB.AssertExpectations(t)
	budgetDB.AssertExpectations(t)
}

func TestScheduler_ProcessBudgetAlertsLimitCrossing(t *testing.T) {
	budget := models.Budget{
		ID:             primitive.NewObjectID(),
		UserID:         "user-1",
		Period:         "weekly",
		Limit:          100,
		Spent:          120,
		LastAlertedPct: 85,
	}

	budgetDB := &mocks.BudgetDatabase{}
	budgetDB.On("Find", mock.Anything, mock.Anything).Return([]models.Budget{budget}, nil)
	budgetDB.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("InsertOne", mock.Anything, mock.MatchedBy(func(n models.Notification) bool {
		return n.Type == models.NotificationTypeSpendingLimit &&
			n.Priority == models.PriorityUrgent
	})).Return(insertedID(primitive.NewObjectID()), nil)

	s := &Scheduler{
		BudgetDB: budgetDB,
		Engine:   newTestEngine(notifDB),
		Config:   &config.Config{},
	}
	s.processBudgetAlerts()

	notifDB.AssertExpectations(t)
}

func TestScheduler_ProcessBudgetAlertsBelowThreshold(t *testing.T) {
	budget := models.Budget{
		ID:     primitive.NewObjectID(),
		UserID: "user-1",
		Limit:  200,
		Spent:  50,
	}

	budgetDB := &mocks.BudgetDatabase{}
	budgetDB.On("Find", mock.Anything, mock.Anything).Return([]models.Budget{budget}, nil)

	notifDB := &mocks.NotificationDatabase{}

	s := &Scheduler{
		BudgetDB: budgetDB,
		Engine:   newTestEngine(notifDB),
		Config:   &config.Config{},
	}
	s.processBudgetAlerts()

	notifDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
	budgetDB.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduler_ProcessBudgetAlertsAlreadyAlerted(t *testing.T) {
	budget := models.Budget{
		ID:             primitive.NewObjectID(),
		UserID:         "user-1",
		Limit:          200,
		Spent:          170,
		LastAlertedPct: 85,
	}

	budgetDB := &mocks.BudgetDatabase{}
	budgetDB.On("Find", mock.Anything, mock.Anything).Return([]models.Budget{budget}, nil)

	notifDB := &mocks.NotificationDatabase{}

	s := &Scheduler{
		BudgetDB: budgetDB,
		Engine:   newTestEngine(notifDB),
		Config:   &config.Config{},
	}
	s.processBudgetAlerts()

	notifDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestScheduler_ProcessWeeklyDigestAggregateError(t *testing.T) {
	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("Aggregate", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	userDB := &mocks.UserDatabase{}

	s := &Scheduler{
		NotifDB: notifDB,
		UserDB:  userDB,
		Config:  &config.Config{},
	}
	s.processWeeklyDigest()

	userDB.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestScheduler_ProcessWeeklyDigestSkipsZeroAndMalformed(t *testing.T) {
	cursor := &mocks.CursorHelper{}
	cursor.On("All", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		rows := args.Get(1).(*[]digestRow)
		*rows = []digestRow{
			{UserID: "not-a-hex-id", Count: 3, LatestTitle: "Budget Alert"},
			{UserID: primitive.NewObjectID().Hex(), Count: 0},
		}
	}).Return(nil)

	// the group stage relies on newest-first order for latestTitle
	notifDB := &mocks.NotificationDatabase{}
	notifDB.On("Aggregate", mock.Anything, mock.MatchedBy(func(pipeline interface{}) bool {
		stages, ok := pipeline.([]bson.M)
		if !ok || len(stages) != 3 {
			return false
		}
		sort, ok := stages[1]["$sort"].(bson.M)
		return ok && sort["createdAt"] == -1
	})).Return(cursor, nil)

	userDB := &mocks.UserDatabase{}

	s := &Scheduler{
		NotifDB: notifDB,
		UserDB:  userDB,
		Config:  &config.Config{},
	}
	s.processWeeklyDigest()

	userDB.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
}

func TestScheduler_ProcessBudgetAlertsFindError(t *testing.T) {
	budgetDB := &mocks.BudgetDatabase{}
	budgetDB.On("Find", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	notifDB := &mocks.NotificationDatabase{}

	s := &Scheduler{
		BudgetDB: budgetDB,
		Engine:   newTestEngine(notifDB),
		Config:   &config.Config{},
	}
	s.processBudgetAlerts()

	notifDB.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}
