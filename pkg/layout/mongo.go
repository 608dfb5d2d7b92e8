package layout

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/grid"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "dashlayout"
	DefaultMongoCollection = "layout_configs"
)

// MongoConfig configures a MongoRepository.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoRepository stores one document per user in a MongoDB collection
// with a unique index on user_id.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	grid   grid.Config
	owned  bool
}

// OpenMongo connects to MongoDB and ensures the user_id index exists.
func OpenMongo(ctx context.Context, cfg MongoConfig, g grid.Config) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	r, err := NewMongoRepository(ctx, client, cfg.Database, cfg.Collection, g)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	r.owned = true
	return r, nil
}

// NewMongoRepository uses an existing client. Close does not disconnect
// a client it did not create.
func NewMongoRepository(ctx context.Context, client *mongo.Client, database, collection string, g grid.Config) (*MongoRepository, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	coll := client.Database(database).Collection(collection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_layout_user"),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create user_id index")
	}
	return &MongoRepository{client: client, coll: coll, grid: g}, nil
}

func (r *MongoRepository) Save(ctx context.Context, cfg Configuration) (Configuration, error) {
	if err := cfg.Validate(r.grid); err != nil {
		return Configuration{}, err
	}

	var existing *Configuration
	var prev Configuration
	err := r.coll.FindOne(ctx, bson.M{"user_id": cfg.UserID},
		options.FindOne().SetProjection(bson.M{"_id": 1, "created_at": 1})).Decode(&prev)
	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "check existing layout")
	default:
		existing = &prev
	}

	cfg, err = prepare(r.grid, cfg, existing)
	if err != nil {
		return Configuration{}, err
	}

	_, err = r.coll.ReplaceOne(ctx, bson.M{"user_id": cfg.UserID}, cfg, options.Replace().SetUpsert(true))
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "write layout for %s", cfg.UserID)
	}
	return cfg, nil
}

func (r *MongoRepository) Load(ctx context.Context, userID string) (Configuration, error) {
	if err := errors.ValidateUserID(userID); err != nil {
		return Configuration{}, err
	}

	var cfg Configuration
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cfg)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return Configuration{}, notFound(userID)
	}
	if err != nil {
		return Configuration{}, errors.Wrap(errors.ErrCodeStorage, err, "query layout for %s", userID)
	}
	return cfg, nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID string) error {
	if err := errors.ValidateUserID(userID); err != nil {
		return err
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete layout for %s", userID)
	}
	return nil
}

func (r *MongoRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.client.Disconnect(context.Background())
}

var _ Repository = (*MongoRepository)(nil)
