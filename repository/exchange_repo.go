package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tieubaoca/doc2cal/database"
)

type exchange struct {
	Request   string    `bson:"_id"`
	Response  string    `bson:"response"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// exchangeRepo is an exchange store kept in one Mongo collection, one
// document per request.
type exchangeRepo struct {
	collection *mongo.Collection
}

func NewExchangeRepo(collection *mongo.Collection) database.ExchangeStore {
	return &exchangeRepo{
		collection: collection,
	}
}

// NewExchangeRepos opens one collection per store name.
func NewExchangeRepos(db *mongo.Database, names []string) database.ExchangeStores {
	stores := make(database.ExchangeStores, 0, len(names))
	for _, name := range names {
		stores = append(stores, NewExchangeRepo(db.Collection(name)))
	}
	return stores
}

func (r *exchangeRepo) Name() string {
	return r.collection.Name()
}

func (r *exchangeRepo) Upsert(ctx context.Context, request, response string) error {
	doc := exchange{Request: request, Response: response, UpdatedAt: time.Now()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *exchangeRepo) Get(ctx context.Context, request string) (string, bool, error) {
	var doc exchange
	err := r.collection.FindOne(ctx, bson.M{"_id": request}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Response, true, nil
}

func (r *exchangeRepo) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
