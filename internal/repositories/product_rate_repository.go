package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/claudemirLima/changeApp/internal/models"
	"github.com/claudemirLima/changeApp/pkg/database"
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
)

// ProductRateRepository mirrors ExchangeRateRepository, additionally scoped
// by product ID.
type ProductRateRepository interface {
	FindActiveByDate(ctx context.Context, productID int64, from, to string, date time.Time) (*models.ProductExchangeRate, error)
	FindLatestActive(ctx context.Context, productID int64, from, to string) (*models.ProductExchangeRate, error)
	ExistsActiveOnDate(ctx context.Context, productID int64, from, to string, date time.Time) (bool, error)
	Insert(ctx context.Context, rate *models.ProductExchangeRate) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type productRateRepository struct {
	collection *mongo.Collection
}

func NewProductRateRepository(db *database.Database) ProductRateRepository {
	return &productRateRepository{
		collection: db.GetCollection("product_exchange_rates"),
	}
}

func (r *productRateRepository) FindActiveByDate(ctx context.Context, productID int64, from, to string, date time.Time) (*models.ProductExchangeRate, error) {
	filter := bson.M{
		"product_id":         productID,
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
		"effective_date":     bson.M{"$lte": date},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var rate models.ProductExchangeRate
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrProductRateNotFound
		}
		return nil, fmt.Errorf("failed to find product rate: %w", err)
	}

	return &rate, nil
}

func (r *productRateRepository) FindLatestActive(ctx context.Context, productID int64, from, to string) (*models.ProductExchangeRate, error) {
	filter := bson.M{
		"product_id":         productID,
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var rate models.ProductExchangeRate
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrProductRateNotFound
		}
		return nil, fmt.Errorf("failed to find latest product rate: %w", err)
	}

	return &rate, nil
}

func (r *productRateRepository) ExistsActiveOnDate(ctx context.Context, productID int64, from, to string, date time.Time) (bool, error) {
	filter := bson.M{
		"product_id":         productID,
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
		"effective_date":     date,
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check product rate existence: %w", err)
	}
	return count > 0, nil
}

func (r *productRateRepository) Insert(ctx context.Context, rate *models.ProductExchangeRate) error {
	if rate.ID.IsZero() {
		rate.ID = primitive.NewObjectID()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, rate); err != nil {
		return fmt.Errorf("failed to insert product rate: %w", err)
	}
	return nil
}

func (r *productRateRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product rate: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrProductRateNotFound
	}
	return nil
}
