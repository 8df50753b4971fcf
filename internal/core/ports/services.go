package ports

import (
	"context"

	"github.com/inventorypro/client-go/internal/core/domain"
)

// AuthService drives the session lifecycle end to end: gateway calls plus
// session store updates.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*domain.Actor, error)
	// Logout clears the local session immediately and notifies the backend
	// best-effort.
	Logout(ctx context.Context) error
}

// ProductService is the authorization-gated surface screens use for product
// mutations. Reads are ungated.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// InventoryService previews and submits stock movements on behalf of the
// current actor.
type InventoryService interface {
	// PreviewAdjustment computes the before/after pair shown to the user
	// prior to submission. No network call is made.
	PreviewAdjustment(product *domain.Product, req domain.StockAdjustmentRequest) (domain.StockDeltaResult, error)
	SubmitAdjustment(ctx context.Context, req domain.StockAdjustmentRequest) (*AdjustmentResult, error)
}
