package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/currency-converter"
)

const DefaultCollection = "currency"

type mongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(c MongoDBConfig) (currency.Storage, error) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(c.ConnectionString))
	if err != nil {
		return nil, err
	}

	name := c.Collection
	if name == "" {
		name = DefaultCollection
	}

	st := mongoStorage{
		client:     client,
		collection: client.Database(c.Database).Collection(name),
	}

	if c.Migrate {
		if err := st.Migrate(context.Background()); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
	}

	return st, nil
}

func (m mongoStorage) Store(ctx context.Context, rates []currency.Rate) ([]currency.RateWithID, error) {
	if len(rates) == 0 {
		return []currency.RateWithID{}, nil
	}

	stored := make([]currency.Rate, 0, len(rates))
	documents := make([]interface{}, 0, len(rates))

	for _, rate := range rates {
		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = time.Now().UTC()
		}

		stored = append(stored, rate)
		documents = append(documents, bson.M{
			"currency":  currency.Pair{From: rate.From, To: rate.To}.String(),
			"rate":      rate.Rate,
			"provider":  string(rate.Provider),
			"createdAt": rate.CreatedAt,
		})
	}

	result, err := m.collection.InsertMany(ctx, documents)
	if err != nil {
		return nil, err
	}

	saved := make([]currency.RateWithID, 0, len(rates))

	for i, id := range result.InsertedIDs {
		saved = append(saved, currency.RateWithID{Rate: stored[i], ID: id})
	}

	return saved, nil
}

func (m mongoStorage) Migrate(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "currency", Value: 1}, {Key: "createdAt", Value: -1}},
	})

	return err
}

func (m mongoStorage) Drop(ctx context.Context) error {
	return m.collection.Drop(ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(context.Background())
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}
