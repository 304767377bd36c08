package persistence

import (
	"time"

	"github.com/iftm/client-service/internal/domain"
)

// ClientModel represents the database schema for clients
type ClientModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:varchar(255);not null;index"`
	CPF       string    `gorm:"column:cpf;type:varchar(14);not null"`
	Income    float64   `gorm:"not null;index"`
	BirthDate time.Time `gorm:"not null"`
	Children  int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts database model to domain entity
func (m *ClientModel) ToDomain() *domain.Client {
	return &domain.Client{
		ID:        m.ID,
		Name:      m.Name,
		CPF:       m.CPF,
		Income:    m.Income,
		BirthDate: m.BirthDate.UTC(),
		Children:  m.Children,
	}
}

// ClientModelFromDomain converts domain entity to database model
func ClientModelFromDomain(client *domain.Client) *ClientModel {
	return &ClientModel{
		ID:        client.ID,
		Name:      client.Name,
		CPF:       client.CPF,
		Income:    client.Income,
		BirthDate: client.BirthDate.UTC(),
		Children:  client.Children,
	}
}
