// Package store persists Product records. The engine is BadgerDB; by default
// it runs fully in memory so the catalog is transient across restarts.
package store

import (
	"context"

	"github.com/fairyhunter13/product-catalog-service/internal/model"
)

// ProductStore is the storage collaborator the handlers depend on. Each call
// runs in its own transaction; the interface makes no guarantee stronger than
// the engine's own concurrency semantics.
type ProductStore interface {
	// Insert writes a new product keyed by its ID.
	Insert(ctx context.Context, p model.Product) error
	// Get returns the product for id and whether it exists.
	Get(ctx context.Context, id string) (model.Product, bool, error)
	// List returns all current products in store-defined order.
	List(ctx context.Context) ([]model.Product, error)
	// Replace overwrites the product with p.ID in one transaction and
	// reports whether a record existed. All mutable fields change together.
	Replace(ctx context.Context, p model.Product) (bool, error)
	// Delete removes the product for id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error
}
