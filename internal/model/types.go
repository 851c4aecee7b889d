// Package model defines domain types used by the service.
package model

// Product represents a catalog product. The ID is generated at creation and
// never changes afterwards.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductView is the read-side projection of a Product. It is rebuilt from
// the entity on every query and never mutated.
type ProductView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ViewOf projects a Product into its read model shape.
func ViewOf(p Product) ProductView {
	return ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}
