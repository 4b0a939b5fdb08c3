package backend

import (
	"context"
	"net/http"
)

// UserService wraps /api/User
type UserService struct {
	client *Client
}

func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.client.checkRequest(req); err != nil {
		return nil, err
	}
	var resp LoginResponse
	if err := s.client.doJSON(ctx, http.MethodPost, "/api/User/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account. The caller signs in afterwards.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) error {
	if err := s.client.checkRequest(req); err != nil {
		return err
	}
	return s.client.doJSON(ctx, http.MethodPost, "/api/User/register", req, nil)
}

func (s *UserService) List(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.client.doJSON(ctx, http.MethodGet, "/api/User", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
