package adapters

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"satark_backend/internal/feature/auth/domain/entity"
	"satark_backend/internal/feature/auth/usecase"
)

// BlacklistCollection is the MongoDB collection holding revoked tokens.
const BlacklistCollection = "blacklisttokens"

// blacklistMongo stores revoked tokens as {token, createdAt, expiresAt} documents.
type blacklistMongo struct {
	coll *mongo.Collection
}

var _ usecase.BlacklistRepository = (*blacklistMongo)(nil)

// NewBlacklistMongo creates a repository over db.blacklisttokens.
func NewBlacklistMongo(db *mongo.Database) *blacklistMongo {
	return &blacklistMongo{coll: db.Collection(BlacklistCollection)}
}

// EnsureIndexes creates the unique token index and a TTL index on expiresAt,
// so the server drops documents on its own once the token has expired.
func (r *blacklistMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("token_unique"),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_ttl"),
		},
	})
	return err
}

// Add upserts the token with $setOnInsert, so repeated logouts keep one document.
func (r *blacklistMongo) Add(ctx context.Context, t *entity.BlacklistedToken) error {
	if t == nil || t.Token == "" {
		return errors.New("token is empty")
	}
	update := bson.M{"$setOnInsert": bson.M{
		"token":     t.Token,
		"createdAt": t.CreatedAt,
		"expiresAt": t.ExpiresAt,
	}}
	_, err := r.coll.UpdateOne(ctx, bson.M{"token": t.Token}, update, options.UpdateOne().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// concurrent upsert of the same token; the other writer won
		return nil
	}
	return err
}

// Contains reports whether the token has been revoked.
func (r *blacklistMongo) Contains(ctx context.Context, token string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"token": token}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// PurgeExpired deletes expired documents the TTL monitor has not reached yet.
func (r *blacklistMongo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
