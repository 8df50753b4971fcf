package backend

import (
	"context"
	"net/http"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// InventoryGateway submits stock movements through the pipeline. The
// backend applies the movement authoritatively and returns the resulting
// before/after pair.
type InventoryGateway struct {
	client *Client
}

func NewInventoryGateway(client *Client) *InventoryGateway {
	return &InventoryGateway{client: client}
}

type adjustmentResponse struct {
	ProductID        string `json:"productId"`
	PreviousQuantity int    `json:"previousQuantity"`
	NewQuantity      int    `json:"newQuantity"`
	SignedChange     int    `json:"signedChange"`
}

func (g *InventoryGateway) SubmitAdjustment(ctx context.Context, req domain.StockAdjustmentRequest) (*ports.AdjustmentResult, error) {
	var res adjustmentResponse
	err := g.client.Do(ctx, http.MethodPost, "/inventory/update", req, &res,
		HandleInline(domain.ErrValidation))
	if err != nil {
		return nil, err
	}
	return &ports.AdjustmentResult{
		ProductID: res.ProductID,
		Delta: domain.StockDeltaResult{
			PreviousQuantity: res.PreviousQuantity,
			NewQuantity:      res.NewQuantity,
			SignedChange:     res.SignedChange,
		},
	}, nil
}
