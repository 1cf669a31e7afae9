package databases

// go generate: mockery --name BudgetDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fynans/fynans-api/models"
)

const budgetCollectionName = "budgets"

// BudgetDatabase contains the methods the alert scheduler needs from the budgets collection
type BudgetDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Budget, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type budgetDatabase struct {
	db DatabaseHelper
}

// NewBudgetDatabase initializes a new instance of budget database with the provided db connection
func NewBudgetDatabase(db DatabaseHelper) BudgetDatabase {
	return &budgetDatabase{
		db: db,
	}
}

func (b *budgetDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Budget, error) {
	cur, err := b.db.Collection(budgetCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var budgets []models.Budget
	if err := cur.All(ctx, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

func (b *budgetDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return b.db.Collection(budgetCollectionName).UpdateOne(ctx, filter, update, opts...)
}
