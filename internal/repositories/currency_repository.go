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
	apperrors "github.com/claudemirLima/changeApp/pkg/errors"
	"github.com/claudemirLima/changeApp/pkg/database"
)

type CurrencyRepository interface {
	Create(ctx context.Context, currency *models.Currency) error
	GetActiveByCode(ctx context.Context, code string) (*models.Currency, error)
	ListActive(ctx context.Context) ([]models.Currency, error)
	Insert(ctx context.Context, currency *models.Currency) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

type currencyRepository struct {
	collection *mongo.Collection
}

func NewCurrencyRepository(db *database.Database) CurrencyRepository {
	return &currencyRepository{
		collection: db.GetCollection("currencies"),
	}
}

func (r *currencyRepository) Create(ctx context.Context, currency *models.Currency) error {
	existing, err := r.GetActiveByCode(ctx, currency.Code)
	if err != nil && err != apperrors.ErrCurrencyNotFound {
		return err
	}
	if existing != nil {
		return apperrors.ErrCurrencyAlreadyExists
	}

	if currency.ID.IsZero() {
		currency.ID = primitive.NewObjectID()
	}
	currency.IsActive = true
	currency.CreatedAt = time.Now()
	currency.UpdatedAt = time.Now()

	return r.Insert(ctx, currency)
}

func (r *currencyRepository) GetActiveByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	filter := bson.M{"code": code, "is_active": true}

	err := r.collection.FindOne(ctx, filter).Decode(&currency)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrCurrencyNotFound
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}

	return &currency, nil
}

func (r *currencyRepository) ListActive(ctx context.Context) ([]models.Currency, error) {
	opts := options.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer cursor.Close(ctx)

	var currencies []models.Currency
	if err := cursor.All(ctx, &currencies); err != nil {
		return nil, fmt.Errorf("failed to decode currencies: %w", err)
	}

	return currencies, nil
}

func (r *currencyRepository) Insert(ctx context.Context, currency *models.Currency) error {
	if currency.ID.IsZero() {
		currency.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, currency); err != nil {
		return fmt.Errorf("failed to insert currency: %w", err)
	}
	return nil
}

func (r *currencyRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrCurrencyNotFound
	}
	return nil
}
