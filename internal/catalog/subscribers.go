package catalog

import (
	"context"
	"expvar"
	"log/slog"
)

var productsCreated = expvar.NewInt("products_created")

// ProductsCreatedCount returns the number of products created since startup.
func ProductsCreatedCount() int64 { return productsCreated.Value() }

// AuditLogSubscriber returns a ProductCreated subscriber that writes an audit
// line for every created product.
func AuditLogSubscriber(log *slog.Logger) func(ctx context.Context, n ProductCreated) error {
	return func(_ context.Context, n ProductCreated) error {
		log.Info("product_created", "product_id", n.ProductID)
		return nil
	}
}

// CreatedCounterSubscriber returns a ProductCreated subscriber that feeds the
// products_created expvar exposed at /debug/vars.
func CreatedCounterSubscriber() func(ctx context.Context, n ProductCreated) error {
	return func(context.Context, ProductCreated) error {
		productsCreated.Add(1)
		return nil
	}
}
