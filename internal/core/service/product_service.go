package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// deptRef lets a bare department ID act as a department-scoped resource for
// authorization checks on not-yet-existing entities.
type deptRef string

func (d deptRef) ResourceDepartmentID() string { return string(d) }

// ProductService is the authorization-gated surface screens use for product
// reads and mutations. Every mutation consults the policy before any
// network call is made.
type ProductService struct {
	sessions ports.SessionStore
	products ports.ProductGateway
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProductService(sessions ports.SessionStore, products ports.ProductGateway, log zerolog.Logger) *ProductService {
	return &ProductService{
		sessions: sessions,
		products: products,
		validate: validator.New(),
		log:      log,
	}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	actor := s.sessions.Current().Actor
	if !domain.CanModify(actor, deptRef(input.DepartmentID)) {
		return nil, fmt.Errorf("create product: %w", domain.ErrForbidden)
	}
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}
	return s.products.Create(ctx, input)
}

func (s *ProductService) Update(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error) {
	existing, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	actor := s.sessions.Current().Actor
	if !domain.CanModify(actor, existing) {
		return nil, fmt.Errorf("update product %s: %w", id, domain.ErrForbidden)
	}
	if err := checkStruct(s.validate, input); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, input)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	actor := s.sessions.Current().Actor
	if !domain.CanDelete(actor) {
		return fmt.Errorf("delete product %s: %w", id, domain.ErrForbidden)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Str("user_id", actor.ID).Msg("product deleted")
	return nil
}
