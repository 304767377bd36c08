package domain

import "context"

type ClientRepository interface {
	FindByID(ctx context.Context, id int64) (*Client, error)
	FindAll(ctx context.Context) ([]*Client, error)
	FindPage(ctx context.Context, req PageRequest) (*Page[*Client], error)
	// FindPageByIncome returns distinct clients with Income >= minIncome.
	FindPageByIncome(ctx context.Context, minIncome float64, req PageRequest) (*Page[*Client], error)
	Insert(ctx context.Context, client *Client) (*Client, error)
	Update(ctx context.Context, client *Client) error
	DeleteByID(ctx context.Context, id int64) error
}
