package mongo

import (
	"context"

	"content-fraud-detection/internal/core"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DecisionRepository persists every check for the admin fraud review view.
type DecisionRepository struct {
	db *mongo.Database
}

func NewDecisionRepository(client *mongo.Client) *DecisionRepository {
	return &DecisionRepository{
		db: client.Database("frauddetect"),
	}
}

func (r *DecisionRepository) Insert(ctx context.Context, rec core.DecisionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := r.db.Collection("decisions").InsertOne(ctx, rec)
	return err
}

func (r *DecisionRepository) List(ctx context.Context, filter core.DecisionFilter) (*core.PaginatedDecisions, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := bson.M{}
	if filter.FraudOnly {
		query["decision.fraud"] = true
	}

	coll := r.db.Collection("decisions")
	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []core.DecisionRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return &core.PaginatedDecisions{
		Records: records,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}, nil
}
