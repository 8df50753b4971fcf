package domain

// ChangeType classifies an inventory movement and determines whether it adds
// to or subtracts from the current quantity.
type ChangeType string

const (
	ChangeRestock    ChangeType = "restock"
	ChangeSale       ChangeType = "sale"
	ChangeAdjustment ChangeType = "adjustment"
	ChangeReturn     ChangeType = "return"
)

// Valid reports whether c is one of the known movement types.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeRestock, ChangeSale, ChangeAdjustment, ChangeReturn:
		return true
	}
	return false
}

// StockAdjustmentRequest is a single human-entered inventory movement. It is
// built per submission and never persisted client-side.
type StockAdjustmentRequest struct {
	ProductID       string     `json:"productId" validate:"required"`
	ChangeType      ChangeType `json:"changeType" validate:"required,oneof=restock sale adjustment return"`
	QuantityChanged int        `json:"quantityChanged" validate:"required,gt=0"`
	Reason          string     `json:"reason,omitempty"`
	ReferenceNumber string     `json:"referenceNumber,omitempty"`
}

// StockDeltaResult is the before/after quantity pair derived from applying a
// movement. It is recomputed whenever inputs change and never stored.
type StockDeltaResult struct {
	PreviousQuantity int `json:"previousQuantity"`
	NewQuantity      int `json:"newQuantity"`
	SignedChange     int `json:"signedChange"`
}

// ComputeStockDelta applies a movement to the current quantity. Restocks and
// returns add; sales subtract. Adjustments subtract when the requested
// quantity fits within the current stock and add otherwise, so the requested
// magnitude picks the direction. The result is never clamped at zero: a
// negative NewQuantity is returned as-is for the backend to accept or
// reject.
func ComputeStockDelta(previous int, req StockAdjustmentRequest) (StockDeltaResult, error) {
	if req.QuantityChanged <= 0 {
		return StockDeltaResult{}, ErrInvalidQuantity
	}

	var next int
	switch req.ChangeType {
	case ChangeRestock, ChangeReturn:
		next = previous + req.QuantityChanged
	case ChangeSale:
		next = previous - req.QuantityChanged
	case ChangeAdjustment:
		if req.QuantityChanged <= previous {
			next = previous - req.QuantityChanged
		} else {
			next = previous + req.QuantityChanged
		}
	default:
		return StockDeltaResult{}, ErrUnknownChangeType
	}

	return StockDeltaResult{
		PreviousQuantity: previous,
		NewQuantity:      next,
		SignedChange:     next - previous,
	}, nil
}
