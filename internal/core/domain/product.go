package domain

// Product is a catalog entry. The cart and order subsystems only reference it.
type Product struct {
	ID          string  `json:"id" yaml:"-"`
	Name        string  `json:"name" yaml:"name"`
	Category    string  `json:"category" yaml:"category"`
	Price       float64 `json:"price" yaml:"price"`
	Size        string  `json:"size" yaml:"size"`
	Description string  `json:"description" yaml:"description"`
	ImageURL    string  `json:"imageUrl" yaml:"imageUrl"`
}
