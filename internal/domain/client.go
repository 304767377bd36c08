package domain

import (
	"errors"
	"time"
)

// Store errors
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrIntegrityConflict  = errors.New("client is referenced by dependent records")
	ErrInvalidPageRequest = errors.New("invalid page request")
)

// Client is the persisted entity. ID is assigned by the store on insert.
type Client struct {
	ID        int64
	Name      string
	CPF       string
	Income    float64
	BirthDate time.Time
	Children  int
}

// Overwrite replaces every field except ID with the values of src.
func (c *Client) Overwrite(src *Client) {
	c.Name = src.Name
	c.CPF = src.CPF
	c.Income = src.Income
	c.BirthDate = src.BirthDate.UTC()
	c.Children = src.Children
}

// Clone returns a copy that shares no state with c.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}
