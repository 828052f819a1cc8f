package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganado/internal/domain/models"
)

const (
	livestockCollection = "livestock"
	salesCollection     = "sales"
	cashCollection      = "cash_movements"
	snapshotCollection  = "reconciliation_snapshots"
)

// MongoDBRepository persists listings, sales, cash movements and report
// snapshots, one collection per entity. Identities are ObjectID hex strings
// assigned on insert.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
	now    func() time.Time
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri).SetRegistry(newRegistry())
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", zap.String("database", dbName))

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithTransaction runs fn inside a multi-document transaction. Repository
// calls made with the context handed to fn join the transaction. The
// transaction is attempted once; transient failures are returned, not retried.
func (r *MongoDBRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return storageErr("start session", err)
	}
	defer session.EndSession(ctx)

	return mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		return runTransaction(sessCtx, session, func() error { return fn(sessCtx) })
	})
}

// transaction is the part of mongo.Session that runTransaction drives.
type transaction interface {
	StartTransaction(opts ...*options.TransactionOptions) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

// runTransaction starts a transaction, runs fn once, and commits. A failing fn
// aborts the transaction and its error is returned unchanged.
func runTransaction(ctx context.Context, tx transaction, fn func() error) error {
	if err := tx.StartTransaction(); err != nil {
		return storageErr("start transaction", err)
	}

	if err := fn(); err != nil {
		if abortErr := tx.AbortTransaction(context.WithoutCancel(ctx)); abortErr != nil {
			return errors.Join(err, storageErr("abort transaction", abortErr))
		}
		return err
	}

	if err := tx.CommitTransaction(ctx); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

// storageErr tags driver failures so callers can tell them from domain errors.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrStorage, err)
}

// lookupErr maps a missing document to models.ErrNotFound.
func lookupErr(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return storageErr(op, err)
}
