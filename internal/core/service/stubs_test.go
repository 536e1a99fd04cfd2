package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/threadline/storefront/internal/core/domain"
	"github.com/threadline/storefront/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users       map[string]*domain.User // keyed by ID
	nextID      int
	updateErr   error // if set, UpdateCart returns this error
	completeErr error // if set, CompleteCheckout returns this error
	updates     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Cart = append([]domain.LineItem(nil), u.Cart...)
	clone.OrderHistory = append([]string(nil), u.OrderHistory...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	c := cloneUser(user)
	c.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateCart(_ context.Context, userID string, cart []domain.LineItem) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	r.updates++
	u.Cart = append([]domain.LineItem(nil), cart...)
	return nil
}

func (r *stubUserRepo) CompleteCheckout(_ context.Context, userID, orderID string) error {
	if r.completeErr != nil {
		return r.completeErr
	}
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Cart = []domain.LineItem{}
	for _, id := range u.OrderHistory {
		if id == orderID {
			return nil
		}
	}
	u.OrderHistory = append(u.OrderHistory, orderID)
	return nil
}

// seedUser stores a user directly, bypassing registration.
func (r *stubUserRepo) seedUser(id string, cart ...domain.LineItem) *domain.User {
	u := &domain.User{
		ID:           id,
		Username:     id,
		Email:        id + "@example.com",
		Cart:         cart,
		OrderHistory: []string{},
	}
	r.users[id] = u
	return u
}

type stubProductRepo struct {
	products  map[string]*domain.Product
	lookupErr error // if set, FindByIDs returns this error
	lastList  ports.ProductFilter
}

func newStubProductRepo(products ...*domain.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) sorted() []*domain.Product {
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// List applies the same filters the real Mongo repo would use.
func (r *stubProductRepo) List(_ context.Context, f ports.ProductFilter) ([]*domain.Product, int64, error) {
	r.lastList = f
	var matched []*domain.Product
	for _, p := range r.sorted() {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Size != "" && p.Size != f.Size {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		matched = append(matched, p)
	}

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Product{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	out := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

func (r *stubProductRepo) Search(_ context.Context, query string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.sorted() {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) InsertMany(_ context.Context, products []*domain.Product) (int, error) {
	for i, p := range products {
		if p.ID == "" {
			p.ID = fmt.Sprintf("p-%d", len(r.products)+i)
		}
		r.products[p.ID] = p
	}
	return len(products), nil
}

func (r *stubProductRepo) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(r.products))
	r.products = make(map[string]*domain.Product)
	return n, nil
}

type stubOrderRepo struct {
	orders    map[string]*domain.Order
	nextID    int
	createErr error
	updateErr error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	clone := *o
	clone.Products = append([]domain.LineItem(nil), o.Products...)
	return &clone
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	o.ID = fmt.Sprintf("order-%d", r.nextID)
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if o, ok := r.orders[id]; ok {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func (p *stubPublisher) Publish(e domain.OrderEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

// stubTx runs fn directly; atomic only changes what Atomic reports.
type stubTx struct {
	atomic bool
	calls  int
}

func (t *stubTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func (t *stubTx) Atomic() bool { return t.atomic }
