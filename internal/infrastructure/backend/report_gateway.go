package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

const reportDateLayout = "2006-01-02"

// ReportGateway queries the backend's reporting endpoints through the
// pipeline.
type ReportGateway struct {
	client *Client
}

func NewReportGateway(client *Client) *ReportGateway {
	return &ReportGateway{client: client}
}

func reportQuery(filter ports.ReportFilter) string {
	q := url.Values{}
	if !filter.DateFrom.IsZero() {
		q.Set("dateFrom", filter.DateFrom.Format(reportDateLayout))
	}
	if !filter.DateTo.IsZero() {
		q.Set("dateTo", filter.DateTo.Format(reportDateLayout))
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.DepartmentID != "" {
		q.Set("departmentId", filter.DepartmentID)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type summaryDTO struct {
	TotalProducts int `json:"totalProducts"`
	TotalQuantity int `json:"totalQuantity"`
	LowStockCount int `json:"lowStockCount"`
}

func (g *ReportGateway) InventorySummary(ctx context.Context, filter ports.ReportFilter) (*ports.InventorySummary, error) {
	var res summaryDTO
	if err := g.client.Do(ctx, http.MethodGet, "/reports/inventory-summary"+reportQuery(filter), nil, &res); err != nil {
		return nil, err
	}
	return &ports.InventorySummary{
		TotalProducts: res.TotalProducts,
		TotalQuantity: res.TotalQuantity,
		LowStockCount: res.LowStockCount,
	}, nil
}

type lowStockItemDTO struct {
	ProductID    string `json:"productId"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorderLevel"`
}

func (g *ReportGateway) LowStock(ctx context.Context, filter ports.ReportFilter) ([]ports.LowStockItem, error) {
	var res []lowStockItemDTO
	if err := g.client.Do(ctx, http.MethodGet, "/reports/low-stock"+reportQuery(filter), nil, &res); err != nil {
		return nil, err
	}
	out := make([]ports.LowStockItem, 0, len(res))
	for _, item := range res {
		out = append(out, ports.LowStockItem{
			ProductID:    item.ProductID,
			Name:         item.Name,
			Quantity:     item.Quantity,
			ReorderLevel: item.ReorderLevel,
		})
	}
	return out, nil
}

type movementDTO struct {
	ProductID       string    `json:"productId"`
	ChangeType      string    `json:"changeType"`
	QuantityChanged int       `json:"quantityChanged"`
	SignedChange    int       `json:"signedChange"`
	Reason          string    `json:"reason,omitempty"`
	ReferenceNumber string    `json:"referenceNumber,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

func (g *ReportGateway) Movements(ctx context.Context, filter ports.ReportFilter) ([]ports.MovementRecord, error) {
	var res []movementDTO
	if err := g.client.Do(ctx, http.MethodGet, "/reports/inventory-movements"+reportQuery(filter), nil, &res); err != nil {
		return nil, err
	}
	out := make([]ports.MovementRecord, 0, len(res))
	for _, m := range res {
		out = append(out, ports.MovementRecord{
			ProductID:       m.ProductID,
			ChangeType:      domain.ChangeType(m.ChangeType),
			QuantityChanged: m.QuantityChanged,
			SignedChange:    m.SignedChange,
			Reason:          m.Reason,
			ReferenceNumber: m.ReferenceNumber,
			Timestamp:       m.Timestamp,
		})
	}
	return out, nil
}
