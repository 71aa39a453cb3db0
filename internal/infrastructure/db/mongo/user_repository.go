package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/user-registry/internal/core/domain"
	"github.com/99minutos/user-registry/internal/core/ports"
)

const (
	usersCollection    = "users"
	countersCollection = "counters"
	userSequence       = "user_id"
)

// UserRepository implements ports.UserRepository using MongoDB. Identifiers
// come from a counter document and are never reissued, even across restarts.
type UserRepository struct {
	users    *mongo.Collection
	counters *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(usersCollection),
		counters: db.Collection(countersCollection),
	}
}

type mongoUser struct {
	ID           int64     `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	FullName     string    `bson:"full_name"`
	Email        string    `bson:"email"`
	Roles        []string  `bson:"roles"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return mongoUser{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Email:        u.Email,
		Roles:        roles,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (mu mongoUser) toDomain() *domain.User {
	roles := mu.Roles
	if roles == nil {
		roles = []string{}
	}
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		FullName:     mu.FullName,
		Email:        mu.Email,
		Roles:        roles,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
	}
}

// patchUpdate builds the $set document for the provided patch fields.
func patchUpdate(p domain.UserPatch) bson.M {
	set := bson.M{}
	if p.FullName != nil {
		set["full_name"] = *p.FullName
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PasswordHash != nil {
		set["password_hash"] = *p.PasswordHash
	}
	if p.Roles != nil {
		roles := *p.Roles
		if roles == nil {
			roles = []string{}
		}
		set["roles"] = roles
	}
	if len(set) == 0 {
		return nil
	}
	if !p.UpdatedAt.IsZero() {
		set["updated_at"] = p.UpdatedAt.UTC()
	}
	return bson.M{"$set": set}
}

// nextID atomically advances the user sequence.
func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": userSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return counter.Seq, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// Cheap pre-check so a duplicate does not consume a sequence value. The
	// unique index still decides under concurrency.
	if _, err := r.FindByUsername(ctx, user.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := toMongoUser(user)
	doc.ID = id
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// List returns users ordered by identifier, which is insertion order.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	update := patchUpdate(patch)
	if update == nil {
		return r.FindByID(ctx, id)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	err := r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	return err
}
