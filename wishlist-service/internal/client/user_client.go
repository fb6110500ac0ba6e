package client

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-resty/resty/v2"
	"net/http"
	"strconv"
	"time"
	"wishlist-microservices/wishlist-service/internal/entity"
)

var (
	// ErrNotFound means the user service answered and the user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrUnavailable means no usable answer: transport failure, timeout or 5xx.
	ErrUnavailable = errors.New("user service unavailable")
)

// UserClient looks users up in the user service.
type UserClient struct {
	http *resty.Client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &UserClient{http: c}
}

// GetUser calls GET /users/{id}. Any 4xx is treated as "no such user".
func (c *UserClient) GetUser(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetResult(user).
		Get("/users/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.IsSuccess():
		return user, nil
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	default:
		return nil, ErrNotFound
	}
}
