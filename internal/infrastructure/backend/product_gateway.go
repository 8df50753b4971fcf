package backend

import (
	"context"
	"net/http"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
)

// ProductGateway talks to the backend's product endpoints through the
// pipeline.
type ProductGateway struct {
	client *Client
}

func NewProductGateway(client *Client) *ProductGateway {
	return &ProductGateway{client: client}
}

func (g *ProductGateway) List(ctx context.Context) ([]domain.Product, error) {
	var res []productDTO
	if err := g.client.Do(ctx, http.MethodGet, "/products", nil, &res); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(res))
	for i := range res {
		out = append(out, *res[i].toDomain())
	}
	return out, nil
}

func (g *ProductGateway) Get(ctx context.Context, id string) (*domain.Product, error) {
	var res productDTO
	if err := g.client.Do(ctx, http.MethodGet, "/products/"+id, nil, &res); err != nil {
		return nil, err
	}
	return res.toDomain(), nil
}

func (g *ProductGateway) Create(ctx context.Context, input ports.ProductInput) (*domain.Product, error) {
	var res productDTO
	err := g.client.Do(ctx, http.MethodPost, "/products", toProductInputDTO(input), &res,
		HandleInline(domain.ErrValidation))
	if err != nil {
		return nil, err
	}
	return res.toDomain(), nil
}

func (g *ProductGateway) Update(ctx context.Context, id string, input ports.ProductInput) (*domain.Product, error) {
	var res productDTO
	err := g.client.Do(ctx, http.MethodPut, "/products/"+id, toProductInputDTO(input), &res,
		HandleInline(domain.ErrValidation))
	if err != nil {
		return nil, err
	}
	return res.toDomain(), nil
}

func (g *ProductGateway) Delete(ctx context.Context, id string) error {
	return g.client.Do(ctx, http.MethodDelete, "/products/"+id, nil, nil)
}
