package domain

import "time"

// LineItem is a product reference with a quantity. It backs both the mutable
// cart lines of a user and the frozen product lines of an order.
type LineItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// User models a registered shopper together with their cart and order history.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Cart         []LineItem `json:"cart"`
	OrderHistory []string   `json:"orderHistory"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// CartIndex returns the position of productID in the cart, or -1.
func (u *User) CartIndex(productID string) int {
	for i, line := range u.Cart {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}
