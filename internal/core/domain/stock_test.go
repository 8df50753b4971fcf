package domain

import (
	"errors"
	"testing"
)

func TestComputeStockDelta(t *testing.T) {
	cases := []struct {
		name     string
		previous int
		change   ChangeType
		qty      int
		wantNew  int
	}{
		{"restock adds", 10, ChangeRestock, 5, 15},
		{"return adds", 10, ChangeReturn, 2, 12},
		{"sale subtracts", 10, ChangeSale, 3, 7},
		{"sale may go negative", 10, ChangeSale, 15, -5},
		{"adjustment within stock subtracts", 10, ChangeAdjustment, 3, 7},
		{"adjustment equal to stock subtracts to zero", 10, ChangeAdjustment, 10, 0},
		{"adjustment exceeding stock adds", 10, ChangeAdjustment, 15, 25},
		{"restock from zero", 0, ChangeRestock, 7, 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeStockDelta(tc.previous, StockAdjustmentRequest{
				ProductID:       "p1",
				ChangeType:      tc.change,
				QuantityChanged: tc.qty,
			})
			if err != nil {
				t.Fatalf("ComputeStockDelta returned error: %v", err)
			}
			if got.NewQuantity != tc.wantNew {
				t.Fatalf("NewQuantity = %d, want %d", got.NewQuantity, tc.wantNew)
			}
			if got.PreviousQuantity != tc.previous {
				t.Fatalf("PreviousQuantity = %d, want %d", got.PreviousQuantity, tc.previous)
			}
			if got.SignedChange != tc.wantNew-tc.previous {
				t.Fatalf("SignedChange = %d, want %d", got.SignedChange, tc.wantNew-tc.previous)
			}
		})
	}
}

func TestComputeStockDelta_InvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1, -100} {
		_, err := ComputeStockDelta(10, StockAdjustmentRequest{
			ProductID:       "p1",
			ChangeType:      ChangeSale,
			QuantityChanged: qty,
		})
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestComputeStockDelta_UnknownChangeType(t *testing.T) {
	_, err := ComputeStockDelta(10, StockAdjustmentRequest{
		ProductID:       "p1",
		ChangeType:      ChangeType("transfer"),
		QuantityChanged: 1,
	})
	if !errors.Is(err, ErrUnknownChangeType) {
		t.Fatalf("expected ErrUnknownChangeType, got %v", err)
	}
}

func TestChangeTypeValid(t *testing.T) {
	for _, c := range []ChangeType{ChangeRestock, ChangeSale, ChangeAdjustment, ChangeReturn} {
		if !c.Valid() {
			t.Fatalf("%s should be valid", c)
		}
	}
	if ChangeType("transfer").Valid() {
		t.Fatalf("transfer should not be valid")
	}
}
