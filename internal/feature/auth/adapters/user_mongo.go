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

// UsersCollection is the MongoDB collection holding user documents.
const UsersCollection = "users"

type fullnameDocument struct {
	Firstname string `bson:"firstname"`
	Lastname  string `bson:"lastname,omitempty"`
}

// userDocument is the BSON shape of a user.
type userDocument struct {
	ID        string           `bson:"_id"`
	Fullname  fullnameDocument `bson:"fullname"`
	Email     string           `bson:"email"`
	Password  string           `bson:"password,omitempty"`
	CreatedAt time.Time        `bson:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt"`
}

func userDocumentFromEntity(u *entity.User) *userDocument {
	return &userDocument{
		ID:        u.ID,
		Fullname:  fullnameDocument{Firstname: u.Fullname.Firstname, Lastname: u.Fullname.Lastname},
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID,
		Fullname:  entity.Fullname{Firstname: d.Fullname.Firstname, Lastname: d.Fullname.Lastname},
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// userMongo is a MongoDB implementation of the UserRepository interface.
type userMongo struct {
	coll *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a repository over db.users.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{coll: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique email index. Safe to call on every start.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

// Create inserts the user; a unique index conflict maps to usecase.ErrEmailAlreadyExists.
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, userDocumentFromEntity(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail returns the user including the password hash.
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne())
}

// FindByID returns the user without the password field.
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"password": 0}))
}

func (r *userMongo) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptionsBuilder) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}
