package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/storefront/internal/core/domain"
)

const (
	usersCollection   = "users"
	emailIndexName    = "email_unique"
	usernameIndexName = "username_unique"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Email        string               `bson:"email"`
	Password     string               `bson:"password"`
	Cart         []lineDoc            `bson:"cart"`
	OrderHistory []primitive.ObjectID `bson:"orderHistory"`
	CreatedAt    time.Time            `bson:"createdAt"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoUser(user)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// UpdateCart sets the cart field alone; orderHistory is left as stored.
func (r *UserRepository) UpdateCart(ctx context.Context, userID string, cart []domain.LineItem) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	lines, err := toLineDocs(cart)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"cart": lines}})
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// CompleteCheckout clears the cart and records orderID in one UpdateOne.
// $addToSet keeps a replay from duplicating the history entry.
func (r *UserRepository) CompleteCheckout(ctx context.Context, userID, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return fmt.Errorf("complete checkout: invalid order id %q", orderID)
	}

	update := bson.M{
		"$set":      bson.M{"cart": bson.A{}},
		"$addToSet": bson.M{"orderHistory": oid},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return fmt.Errorf("complete checkout: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// duplicateUserError names the unique index a duplicate key error came from.
// The server reports it as "index: <name> dup key: ..." in the write error.
func duplicateUserError(err error) error {
	msg := err.Error()
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				msg = e.Message
				break
			}
		}
	}
	if strings.Contains(msg, "index: "+emailIndexName+" ") {
		return domain.ErrEmailTaken
	}
	return domain.ErrUsernameTaken
}

// EnsureIndexes creates the unique email and username indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndexName)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(usernameIndexName)},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func toMongoUser(u *domain.User) (mongoUser, error) {
	doc := mongoUser{
		Username:     u.Username,
		Email:        u.Email,
		Password:     u.PasswordHash,
		OrderHistory: objectIDs(u.OrderHistory),
		CreatedAt:    u.CreatedAt.UTC(),
	}
	if u.ID != "" {
		oid, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return mongoUser{}, domain.ErrUserNotFound
		}
		doc.ID = oid
	}
	lines, err := toLineDocs(u.Cart)
	if err != nil {
		return mongoUser{}, err
	}
	doc.Cart = lines
	return doc, nil
}

func (mu mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.Password,
		Cart:         fromLineDocs(mu.Cart),
		OrderHistory: hexIDs(mu.OrderHistory),
		CreatedAt:    mu.CreatedAt,
	}
}

func toLineDocs(lines []domain.LineItem) ([]lineDoc, error) {
	out := make([]lineDoc, 0, len(lines))
	for _, l := range lines {
		oid, err := primitive.ObjectIDFromHex(l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, l.ProductID)
		}
		out = append(out, lineDoc{Product: oid, Quantity: l.Quantity})
	}
	return out, nil
}

func fromLineDocs(docs []lineDoc) []domain.LineItem {
	out := make([]domain.LineItem, len(docs))
	for i, d := range docs {
		out[i] = domain.LineItem{ProductID: d.Product.Hex(), Quantity: d.Quantity}
	}
	return out
}
