package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ratingsCollection = "analyst_ratings"

type MongoStorage struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStorage(uri, dbName string) (*MongoStorage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	return &MongoStorage{client: client, db: db}, nil
}

func (s *MongoStorage) Close() {
	s.client.Disconnect(context.Background())
}

// Health pings the server.
func (s *MongoStorage) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo health check failed: %w", err)
	}
	return nil
}

// SaveSnapshot upserts the scrape result for (symbol, day). Re-scraping the
// same symbol on the same day replaces the earlier snapshot.
func (s *MongoStorage) SaveSnapshot(ctx context.Context, snapshot *model.RatingSnapshot) error {
	coll := s.db.Collection(ratingsCollection)

	filter := bson.M{
		"symbol": snapshot.Symbol,
		"day":    snapshot.ScrapedAt.UTC().Format("2006-01-02"),
	}
	doc := bson.M{
		"symbol":          snapshot.Symbol,
		"day":             snapshot.ScrapedAt.UTC().Format("2006-01-02"),
		"scraped_at":      snapshot.ScrapedAt,
		"recommendations": snapshot.Recommendations,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert ratings for %s: %w", snapshot.Symbol, err)
	}
	return nil
}

// LatestSnapshot returns the most recent stored snapshot for a symbol, or
// nil when the symbol has never been scraped.
func (s *MongoStorage) LatestSnapshot(ctx context.Context, symbol string) (*model.RatingSnapshot, error) {
	coll := s.db.Collection(ratingsCollection)

	opts := options.FindOne().SetSort(bson.D{{Key: "scraped_at", Value: -1}})
	var snapshot model.RatingSnapshot
	err := coll.FindOne(ctx, bson.M{"symbol": symbol}, opts).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ratings for %s: %w", symbol, err)
	}
	return &snapshot, nil
}
