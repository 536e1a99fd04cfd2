package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/threadline/storefront/internal/core/domain"
)

const ordersCollection = "orders"

type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection(ordersCollection)}
}

type mongoOrder struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	User            primitive.ObjectID     `bson:"user"`
	Products        []lineDoc              `bson:"products"`
	TotalAmount     float64                `bson:"totalAmount"`
	Currency        string                 `bson:"currency"`
	ShippingAddress domain.ShippingAddress `bson:"shippingAddress"`
	Status          string                 `bson:"status"`
	OrderDate       time.Time              `bson:"orderDate"`
}

func (o mongoOrder) toDomain() *domain.Order {
	return &domain.Order{
		ID:              o.ID.Hex(),
		UserID:          o.User.Hex(),
		Products:        fromLineDocs(o.Products),
		TotalAmount:     o.TotalAmount,
		Currency:        domain.Currency(o.Currency),
		ShippingAddress: o.ShippingAddress,
		Status:          domain.OrderStatus(o.Status),
		OrderDate:       o.OrderDate,
	}
}

// Create inserts the order and writes the generated id back onto it.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	uid, err := primitive.ObjectIDFromHex(order.UserID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	lines, err := toLineDocs(order.Products)
	if err != nil {
		return err
	}

	doc := mongoOrder{
		ID:              primitive.NewObjectID(),
		User:            uid,
		Products:        lines,
		TotalAmount:     order.TotalAmount,
		Currency:        string(order.Currency),
		ShippingAddress: order.ShippingAddress,
		Status:          string(order.Status),
		OrderDate:       order.OrderDate.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = doc.ID.Hex()
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o mongoOrder
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return o.toDomain(), nil
}

// FindByIDs returns the orders that still exist, in the order of ids.
func (r *OrderRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Order, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Order{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Order, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}
	orders := make([]*domain.Order, 0, len(found))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*domain.Order{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"user": uid}, options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}}))
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// EnsureIndexes creates the index serving order history lookups.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "orderDate", Value: -1}},
	})
	return err
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*domain.Order, error) {
	cur, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoOrder
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	orders := make([]*domain.Order, len(docs))
	for i, d := range docs {
		orders[i] = d.toDomain()
	}
	return orders, nil
}
