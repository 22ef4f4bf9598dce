package statistics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "statistics"

type statisticsDocument struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty"`
	UserID        primitive.ObjectID    `bson:"user_id"`
	Weekly        []models.PeriodTotals `bson:"weekly"`
	Monthly       []models.PeriodTotals `bson:"monthly"`
	Yearly        []models.PeriodTotals `bson:"yearly"`
	TotalDistance totalDistanceDocument `bson:"total_distance"`
}

type totalDistanceDocument struct {
	YearStart   time.Time `bson:"year_start"`
	Distance    float64   `bson:"distance"`
	Duration    float64   `bson:"duration"`
	Count       int64     `bson:"count"`
	AveragePace float64   `bson:"average_pace"`
}

func emptyIfNil(v []models.PeriodTotals) []models.PeriodTotals {
	if v == nil {
		return []models.PeriodTotals{}
	}
	return v
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes makes user_id unique so a user never gets two records.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_id_unique"),
	})
	if err != nil {
		return fmt.Errorf("create statistics index: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, s *models.Statistics) (*models.Statistics, error) {
	userID, err := primitive.ObjectIDFromHex(s.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", s.UserID, err)
	}

	t := s.TotalDistance
	doc := statisticsDocument{
		UserID:  userID,
		Weekly:  emptyIfNil(s.Weekly),
		Monthly: emptyIfNil(s.Monthly),
		Yearly:  emptyIfNil(s.Yearly),
		TotalDistance: totalDistanceDocument{
			YearStart:   t.YearStart,
			Distance:    t.Distance,
			Duration:    t.Duration,
			Count:       t.Count,
			AveragePace: t.AveragePace,
		},
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, mongoError(err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id.Hex()
	}

	return s, nil
}

func (r *MongoRepository) GetByUserID(ctx context.Context, userID string) (*models.Statistics, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	var doc statisticsDocument
	if err := r.coll.FindOne(ctx, bson.M{"user_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, mongoError(err)
	}

	t := doc.TotalDistance
	return &models.Statistics{
		ID:      doc.ID.Hex(),
		UserID:  doc.UserID.Hex(),
		Weekly:  emptyIfNil(doc.Weekly),
		Monthly: emptyIfNil(doc.Monthly),
		Yearly:  emptyIfNil(doc.Yearly),
		TotalDistance: models.TotalDistance{
			YearStart:   t.YearStart,
			Distance:    t.Distance,
			Duration:    t.Duration,
			Count:       t.Count,
			AveragePace: t.AveragePace,
		},
	}, nil
}

func (r *MongoRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": oid})
	if err != nil {
		return 0, mongoError(err)
	}
	return n, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mongoError(err)
	}
	return n, nil
}

func mongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}
