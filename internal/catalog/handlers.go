package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/fairyhunter13/product-catalog-service/internal/mediator"
	"github.com/fairyhunter13/product-catalog-service/internal/model"
	"github.com/fairyhunter13/product-catalog-service/internal/store"
)

var validate = validator.New()

// CreateProductHandler inserts a new product and publishes ProductCreated
// after the insert has committed.
type CreateProductHandler struct {
	store store.ProductStore
	pub   mediator.Publisher
}

func NewCreateProductHandler(st store.ProductStore, pub mediator.Publisher) *CreateProductHandler {
	return &CreateProductHandler{store: st, pub: pub}
}

func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProduct) (string, error) {
	if err := validate.Struct(cmd); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p := model.Product{
		ID:          uuid.NewString(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
	}
	if err := h.store.Insert(ctx, p); err != nil {
		return "", err
	}
	h.pub.Publish(ctx, ProductCreated{ProductID: p.ID})
	return p.ID, nil
}

// UpdateProductHandler replaces all mutable fields of an existing product.
type UpdateProductHandler struct {
	store store.ProductStore
}

func NewUpdateProductHandler(st store.ProductStore) *UpdateProductHandler {
	return &UpdateProductHandler{store: st}
}

func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProduct) (struct{}, error) {
	if err := validate.Struct(cmd); err != nil {
		return struct{}{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p := model.Product{
		ID:          cmd.ID,
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price,
	}
	found, err := h.store.Replace(ctx, p)
	if err != nil {
		return struct{}{}, err
	}
	if !found {
		return struct{}{}, fmt.Errorf("%s: %w", cmd.ID, ErrNotFound)
	}
	return struct{}{}, nil
}

// DeleteProductHandler removes a product. Absence is success.
type DeleteProductHandler struct {
	store store.ProductStore
}

func NewDeleteProductHandler(st store.ProductStore) *DeleteProductHandler {
	return &DeleteProductHandler{store: st}
}

func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProduct) (struct{}, error) {
	return struct{}{}, h.store.Delete(ctx, cmd.ID)
}

// GetProductHandler projects one product into its view. A missing id yields
// a nil view and no error; the boundary maps nil to not-found.
type GetProductHandler struct {
	store store.ProductStore
}

func NewGetProductHandler(st store.ProductStore) *GetProductHandler {
	return &GetProductHandler{store: st}
}

func (h *GetProductHandler) Handle(ctx context.Context, q GetProduct) (*model.ProductView, error) {
	p, found, err := h.store.Get(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	view := model.ViewOf(p)
	return &view, nil
}

// ListProductsHandler projects every current product into a view. An empty
// store yields an empty slice.
type ListProductsHandler struct {
	store store.ProductStore
}

func NewListProductsHandler(st store.ProductStore) *ListProductsHandler {
	return &ListProductsHandler{store: st}
}

func (h *ListProductsHandler) Handle(ctx context.Context, _ ListProducts) ([]model.ProductView, error) {
	products, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(products, func(p model.Product, _ int) model.ProductView {
		return model.ViewOf(p)
	}), nil
}

// Register binds all five handlers into d. It fails on any double binding so
// a wiring defect surfaces at startup instead of on the first request.
func Register(d *mediator.Dispatcher, st store.ProductStore, pub mediator.Publisher) error {
	if err := mediator.RegisterHandler(d, NewCreateProductHandler(st, pub).Handle); err != nil {
		return err
	}
	if err := mediator.RegisterHandler(d, NewUpdateProductHandler(st).Handle); err != nil {
		return err
	}
	if err := mediator.RegisterHandler(d, NewDeleteProductHandler(st).Handle); err != nil {
		return err
	}
	if err := mediator.RegisterHandler(d, NewGetProductHandler(st).Handle); err != nil {
		return err
	}
	return mediator.RegisterHandler(d, NewListProductsHandler(st).Handle)
}
