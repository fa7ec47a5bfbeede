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

// ExchangeRateRepository reads and versions base rates. Rates are never
// mutated in place: deactivation inserts an inactive copy and removes the
// active row, preserving history.
type ExchangeRateRepository interface {
	FindActiveByDate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error)
	FindLatestActive(ctx context.Context, from, to string) (*models.ExchangeRate, error)
	ExistsActiveOnDate(ctx context.Context, from, to string, date time.Time) (bool, error)
	Insert(ctx context.Context, rate *models.ExchangeRate) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	FindHistory(ctx context.Context, from, to string, start, end time.Time) ([]models.ExchangeRate, error)
	ListActive(ctx context.Context) ([]models.ExchangeRate, error)
}

type exchangeRateRepository struct {
	collection *mongo.Collection
}

func NewExchangeRateRepository(db *database.Database) ExchangeRateRepository {
	return &exchangeRateRepository{
		collection: db.GetCollection("exchange_rates"),
	}
}

// FindActiveByDate returns the active rate whose effective date window
// contains the given date (latest effective date not after it).
func (r *exchangeRateRepository) FindActiveByDate(ctx context.Context, from, to string, date time.Time) (*models.ExchangeRate, error) {
	filter := bson.M{
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
		"effective_date":     bson.M{"$lte": date},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var rate models.ExchangeRate
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrExchangeRateNotFound
		}
		return nil, fmt.Errorf("failed to find exchange rate: %w", err)
	}

	return &rate, nil
}

func (r *exchangeRateRepository) FindLatestActive(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	filter := bson.M{
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	var rate models.ExchangeRate
	err := r.collection.FindOne(ctx, filter, opts).Decode(&rate)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrExchangeRateNotFound
		}
		return nil, fmt.Errorf("failed to find latest exchange rate: %w", err)
	}

	return &rate, nil
}

func (r *exchangeRateRepository) ExistsActiveOnDate(ctx context.Context, from, to string, date time.Time) (bool, error) {
	filter := bson.M{
		"from_currency_code": from,
		"to_currency_code":   to,
		"is_active":          true,
		"effective_date":     date,
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check exchange rate existence: %w", err)
	}
	return count > 0, nil
}

func (r *exchangeRateRepository) Insert(ctx context.Context, rate *models.ExchangeRate) error {
	if rate.ID.IsZero() {
		rate.ID = primitive.NewObjectID()
	}
	if rate.CreatedAt.IsZero() {
		rate.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, rate); err != nil {
		return fmt.Errorf("failed to insert exchange rate: %w", err)
	}
	return nil
}

func (r *exchangeRateRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete exchange rate: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrExchangeRateNotFound
	}
	return nil
}

func (r *exchangeRateRepository) FindHistory(ctx context.Context, from, to string, start, end time.Time) ([]models.ExchangeRate, error) {
	filter := bson.M{
		"from_currency_code": from,
		"to_currency_code":   to,
		"effective_date":     bson.M{"$gte": start, "$lte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "effective_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rate history: %w", err)
	}
	defer cursor.Close(ctx)

	var rates []models.ExchangeRate
	if err := cursor.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode rate history: %w", err)
	}
	return rates, nil
}

func (r *exchangeRateRepository) ListActive(ctx context.Context) ([]models.ExchangeRate, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "from_currency_code", Value: 1},
		{Key: "to_currency_code", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer cursor.Close(ctx)

	var rates []models.ExchangeRate
	if err := cursor.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode exchange rates: %w", err)
	}
	return rates, nil
}
