package memoryrepository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/iftm/client-service/internal/domain"
)

// ClientRepository keeps clients in process memory. Records marked as
// referenced refuse deletion the way a foreign key without cascade would.
type ClientRepository struct {
	mu         sync.RWMutex
	clients    map[int64]*domain.Client
	referenced map[int64]bool
	lastID     int64
}

func NewClientRepository(seed ...*domain.Client) *ClientRepository {
	r := &ClientRepository{
		clients:    make(map[int64]*domain.Client),
		referenced: make(map[int64]bool),
	}
	for _, c := range seed {
		r.clients[c.ID] = c.Clone()
		if c.ID > r.lastID {
			r.lastID = c.ID
		}
	}
	return r
}

// MarkReferenced makes DeleteByID fail with ErrIntegrityConflict for id.
func (r *ClientRepository) MarkReferenced(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced[id] = true
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return c.Clone(), nil
}

func (r *ClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(*domain.Client) bool { return true }, "id", false), nil
}

func (r *ClientRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	return r.page(ctx, req, func(*domain.Client) bool { return true })
}

func (r *ClientRepository) FindPageByIncome(ctx context.Context, minIncome float64, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	return r.page(ctx, req, func(c *domain.Client) bool { return c.Income >= minIncome })
}

func (r *ClientRepository) Insert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastID++
	stored := client.Clone()
	stored.ID = r.lastID
	stored.BirthDate = stored.BirthDate.UTC()
	r.clients[stored.ID] = stored

	return stored.Clone(), nil
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[client.ID]; !ok {
		return domain.ErrClientNotFound
	}
	r.clients[client.ID] = client.Clone()
	return nil
}

func (r *ClientRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[id]; !ok {
		return domain.ErrClientNotFound
	}
	if r.referenced[id] {
		return domain.ErrIntegrityConflict
	}
	delete(r.clients, id)
	return nil
}

func (r *ClientRepository) page(ctx context.Context, req domain.PageRequest, keep func(*domain.Client) bool) (*domain.Page[*domain.Client], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sorted(keep, req.SortColumn(), req.Descending())
	total := int64(len(all))

	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}

	return domain.NewPage(all[start:end], req, total), nil
}

// sorted must be called with r.mu held.
func (r *ClientRepository) sorted(keep func(*domain.Client) bool, column string, desc bool) []*domain.Client {
	out := make([]*domain.Client, 0, len(r.clients))
	for _, c := range r.clients {
		if keep(c) {
			out = append(out, c.Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		cmp := compare(out[i], out[j], column)
		if cmp == 0 {
			return out[i].ID < out[j].ID
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

func compare(a, b *domain.Client, column string) int {
	switch column {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "cpf":
		return strings.Compare(a.CPF, b.CPF)
	case "income":
		return compareOrdered(a.Income, b.Income)
	case "birth_date":
		return a.BirthDate.Compare(b.BirthDate)
	case "children":
		return compareOrdered(a.Children, b.Children)
	default:
		return compareOrdered(a.ID, b.ID)
	}
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
