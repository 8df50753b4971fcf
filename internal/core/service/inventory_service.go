package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// InventoryService previews and submits stock movements on behalf of the
// current actor. The preview uses the same arithmetic the backend applies
// authoritatively, so what the user sees is what the server will compute.
type InventoryService struct {
	sessions  ports.SessionStore
	products  ports.ProductGateway
	inventory ports.InventoryGateway
	validate  *validator.Validate
	log       zerolog.Logger
}

func NewInventoryService(sessions ports.SessionStore, products ports.ProductGateway, inventory ports.InventoryGateway, log zerolog.Logger) *InventoryService {
	return &InventoryService{
		sessions:  sessions,
		products:  products,
		inventory: inventory,
		validate:  validator.New(),
		log:       log,
	}
}

// PreviewAdjustment computes the before/after quantity pair shown to the
// user before submission. Pure: no network call is made.
func (s *InventoryService) PreviewAdjustment(product *domain.Product, req domain.StockAdjustmentRequest) (domain.StockDeltaResult, error) {
	actor := s.sessions.Current().Actor
	if !domain.CanModify(actor, product) {
		return domain.StockDeltaResult{}, fmt.Errorf("adjust stock: %w", domain.ErrForbidden)
	}
	if err := checkStruct(s.validate, req); err != nil {
		return domain.StockDeltaResult{}, err
	}
	return domain.ComputeStockDelta(product.Quantity, req)
}

// SubmitAdjustment checks authorization against the product's current state,
// then submits the movement for the backend to apply authoritatively.
func (s *InventoryService) SubmitAdjustment(ctx context.Context, req domain.StockAdjustmentRequest) (*ports.AdjustmentResult, error) {
	if err := checkStruct(s.validate, req); err != nil {
		return nil, err
	}

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	actor := s.sessions.Current().Actor
	if !domain.CanModify(actor, product) {
		return nil, fmt.Errorf("adjust stock for %s: %w", req.ProductID, domain.ErrForbidden)
	}

	preview, err := domain.ComputeStockDelta(product.Quantity, req)
	if err != nil {
		return nil, err
	}

	res, err := s.inventory.SubmitAdjustment(ctx, req)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("product_id", req.ProductID).
		Str("change_type", string(req.ChangeType)).
		Int("quantity_changed", req.QuantityChanged).
		Int("previewed_new_quantity", preview.NewQuantity).
		Int("applied_new_quantity", res.Delta.NewQuantity).
		Msg("stock adjustment applied")

	return res, nil
}
