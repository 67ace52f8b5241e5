package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/quackbot/internal/domain"
	"github.com/Rrens/quackbot/internal/source"
)

// Source reads the catalog from a MongoDB collection of company documents
type Source struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewSource creates a new MongoDB source
func NewSource() source.Source {
	return &Source{}
}

// Type returns the source type identifier
func (s *Source) Type() string {
	return "mongo"
}

// Open connects using a mongodb:// URI
func (s *Source) Open(ctx context.Context, cfg source.Config) error {
	if cfg.Database == "" || cfg.Table == "" {
		return fmt.Errorf("database and collection are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Location))
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping: %w", err)
	}

	s.client = client
	s.collection = client.Database(cfg.Database).Collection(cfg.Table)
	return nil
}

// Load returns all documents; catalog order follows the position field, then insertion order
func (s *Source) Load(ctx context.Context) ([]domain.Company, error) {
	if s.collection == nil {
		return nil, fmt.Errorf("not connected")
	}

	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []domain.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("failed to decode companies: %w", err)
	}
	return companies, nil
}

// Close disconnects the client
func (s *Source) Close() error {
	if s.client != nil {
		err := s.client.Disconnect(context.Background())
		s.client = nil
		return err
	}
	return nil
}
