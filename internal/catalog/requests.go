// Package catalog holds the product commands, queries, and their handlers.
package catalog

// Request names used for dispatch. One name binds exactly one handler.
const (
	createProductName = "catalog.create_product"
	getProductName    = "catalog.get_product"
	listProductsName  = "catalog.list_products"
	updateProductName = "catalog.update_product"
	deleteProductName = "catalog.delete_product"
)

// CreateProduct is the command to add a new product. The identifier is
// generated by the handler, never supplied by the caller.
type CreateProduct struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (CreateProduct) RequestName() string { return createProductName }

// UpdateProduct is the command to replace a product's mutable fields. All
// three fields are replaced together.
type UpdateProduct struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (UpdateProduct) RequestName() string { return updateProductName }

// DeleteProduct is the command to remove a product. Deleting an absent id
// succeeds silently.
type DeleteProduct struct {
	ID string `json:"id"`
}

func (DeleteProduct) RequestName() string { return deleteProductName }

// GetProduct is the query for a single product view.
type GetProduct struct {
	ID string `json:"id"`
}

func (GetProduct) RequestName() string { return getProductName }

// ListProducts is the query for all current product views.
type ListProducts struct{}

func (ListProducts) RequestName() string { return listProductsName }

// ProductCreated is broadcast after a CreateProduct command has committed.
type ProductCreated struct {
	ProductID string `json:"product_id"`
}

func (ProductCreated) NotificationName() string { return "catalog.product_created" }
