package dto

import (
	"time"

	"github.com/iftm/client-service/internal/domain"
)

// ClientDTO is the API-facing projection of a Client. The zero value is the
// empty seed used for request intake.
type ClientDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Income    float64   `json:"income"`
	BirthDate time.Time `json:"birthDate"`
	Children  int       `json:"children"`
}

func NewClientDTO(client *domain.Client) ClientDTO {
	return ClientDTO{
		ID:        client.ID,
		Name:      client.Name,
		CPF:       client.CPF,
		Income:    client.Income,
		BirthDate: client.BirthDate.UTC(),
		Children:  client.Children,
	}
}

// ToEntity copies every field except ID, which is never taken from a DTO.
func (d ClientDTO) ToEntity() *domain.Client {
	return &domain.Client{
		Name:      d.Name,
		CPF:       d.CPF,
		Income:    d.Income,
		BirthDate: d.BirthDate.UTC(),
		Children:  d.Children,
	}
}

func NewClientDTOs(clients []*domain.Client) []ClientDTO {
	out := make([]ClientDTO, len(clients))
	for i, c := range clients {
		out[i] = NewClientDTO(c)
	}
	return out
}
