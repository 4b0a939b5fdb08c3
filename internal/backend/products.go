package backend

import (
	"context"
	"fmt"
	"net/http"
)

// ProductService wraps /api/Product
type ProductService struct {
	client *Client
}

func NewProductService(c *Client) *ProductService {
	return &ProductService{client: c}
}

func (s *ProductService) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/Product", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := s.client.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/Product/getProduct/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := s.client.checkRequest(in); err != nil {
		return nil, err
	}
	var p Product
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/Product/addProduct", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	if err := s.client.checkRequest(in); err != nil {
		return nil, err
	}
	var p Product
	if err := s.client.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/Product/update/%d", id), in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	return s.client.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/Product/delete/%d", id), nil, nil)
}
