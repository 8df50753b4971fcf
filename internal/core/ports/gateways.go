package ports

import (
	"context"
	"time"

	"github.com/inventorypro/client-go/internal/core/domain"
)

// LoginInput carries the credentials for the login endpoint.
type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// LoginResult is the authenticated identity plus its freshly minted
// credential pair.
type LoginResult struct {
	Actor        *domain.Actor
	AccessToken  string
	RefreshToken string
}

// AuthGateway talks to the backend's authentication endpoints.
type AuthGateway interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	// Refresh exchanges the refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Logout revokes the refresh token server-side. Best effort; local
	// session state is cleared independently of this call's outcome.
	Logout(ctx context.Context, refreshToken string) error
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	SKU          string `validate:"required"`
	Name         string `validate:"required"`
	Category     string
	Quantity     int `validate:"gte=0"`
	ReorderLevel int `validate:"gte=0"`
	DepartmentID string
}

// ProductGateway talks to the backend's product endpoints.
type ProductGateway interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// AdjustmentResult is the backend's authoritative application of a stock
// movement.
type AdjustmentResult struct {
	ProductID string
	Delta     domain.StockDeltaResult
}

// InventoryGateway submits stock movements.
type InventoryGateway interface {
	SubmitAdjustment(ctx context.Context, req domain.StockAdjustmentRequest) (*AdjustmentResult, error)
}

// ReportFilter narrows report queries. Zero values mean "no filter".
type ReportFilter struct {
	DateFrom     time.Time
	DateTo       time.Time
	Category     string
	DepartmentID string
}

// InventorySummary aggregates the current state of the catalogue.
type InventorySummary struct {
	TotalProducts int
	TotalQuantity int
	LowStockCount int
}

// LowStockItem is a product at or below its reorder level.
type LowStockItem struct {
	ProductID    string
	Name         string
	Quantity     int
	ReorderLevel int
}

// MovementRecord is one historical stock movement.
type MovementRecord struct {
	ProductID       string
	ChangeType      domain.ChangeType
	QuantityChanged int
	SignedChange    int
	Reason          string
	ReferenceNumber string
	Timestamp       time.Time
}

// ReportGateway queries the backend's reporting endpoints.
type ReportGateway interface {
	InventorySummary(ctx context.Context, filter ReportFilter) (*InventorySummary, error)
	LowStock(ctx context.Context, filter ReportFilter) ([]LowStockItem, error)
	Movements(ctx context.Context, filter ReportFilter) ([]MovementRecord, error)
}
