package seed

import (
	"context"
	"fmt"

	"github.com/iftm/client-service/internal/domain"
)

// Load inserts the reference clients when repo holds no clients yet. It
// returns how many clients were inserted.
func Load(ctx context.Context, repo domain.ClientRepository) (int, error) {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing clients: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	clients := Clients()
	for _, c := range clients {
		if _, err := repo.Insert(ctx, c); err != nil {
			return 0, fmt.Errorf("failed to seed client %q: %w", c.Name, err)
		}
	}
	return len(clients), nil
}
