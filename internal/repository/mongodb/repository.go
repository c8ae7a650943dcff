package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// Repository defines the time entry and staff storage operations.
type Repository interface {
	InsertEntry(ctx context.Context, entry models.TimeEntry) (string, error)
	FindEntries(ctx context.Context, query models.EntryQuery) ([]models.TimeEntry, error)
	LatestEntry(ctx context.Context, staffID string) (*models.TimeEntry, error)
	GetEntry(ctx context.Context, id string) (*models.TimeEntry, error)
	UpdateEntry(ctx context.Context, id string, patch models.EntryPatch) (*models.TimeEntry, error)
	DeleteEntry(ctx context.Context, id string) (*models.TimeEntry, error)
	UpsertStaff(ctx context.Context, member models.StaffMember) error
	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	Ping(ctx context.Context) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client  *mongo.Client
	entries *mongo.Collection
	staff   *mongo.Collection
	logger  *zap.Logger
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, cfg config.MongoDBConfig, logger *zap.Logger) (*MongoDBRepository, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("%w: mongodb uri not configured", models.ErrStoreUnavailable)
	}

	clientOptions := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client, cfg, logger), nil
}

// New builds a repository on top of an already connected client.
func New(client *mongo.Client, cfg config.MongoDBConfig, logger *zap.Logger) *MongoDBRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	db := client.Database(cfg.DBName)
	return &MongoDBRepository{
		client:  client,
		entries: db.Collection(cfg.EntriesCollection),
		staff:   db.Collection(cfg.StaffCollection),
		logger:  logger,
	}
}

// EnsureIndexes creates the indexes the status and range queries rely on.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	entryIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "staffId", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	}
	if _, err := r.entries.Indexes().CreateMany(ctx, entryIndexes); err != nil {
		return fmt.Errorf("create time entry indexes: %w", err)
	}

	staffIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.staff.Indexes().CreateOne(ctx, staffIndex); err != nil {
		return fmt.Errorf("create staff index: %w", err)
	}

	r.logger.Info("mongodb indexes ensured")
	return nil
}

// Ping verifies the store is reachable.
func (r *MongoDBRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, nil); err != nil {
		return classify("ping mongodb", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
