package seed

import (
	"time"

	"github.com/iftm/client-service/internal/domain"
)

// Clients returns the reference data set: twelve clients, five of them with
// income of at least 4000. IDs follow insertion order starting at 1.
func Clients() []*domain.Client {
	rows := []struct {
		name      string
		cpf       string
		income    float64
		birthDate string
		children  int
	}{
		{"Conceição Evaristo", "10619244881", 1500.0, "2020-07-13T20:50:00Z", 2},
		{"Lázaro Ramos", "10619244881", 2500.0, "1996-12-23T07:00:00Z", 2},
		{"Clarice Lispector", "10919444522", 3800.0, "1960-04-13T07:50:00Z", 2},
		{"Carolina Maria de Jesus", "10419244771", 7500.0, "1996-12-23T07:00:00Z", 0},
		{"Gilberto Gil", "10419344882", 2500.0, "1949-05-05T07:00:00Z", 4},
		{"Djamila Ribeiro", "10619244884", 4500.0, "1975-11-10T07:00:00Z", 1},
		{"Jose Saramago", "10239254871", 5000.0, "1996-12-23T07:00:00Z", 1},
		{"Toni Morrison", "10219344681", 10000.0, "1940-02-23T07:00:00Z", 0},
		{"Chimamanda Adichie", "10114274861", 1500.0, "1956-09-23T07:00:00Z", 2},
		{"Silvio Almeida", "10164334861", 4500.0, "1976-02-23T07:00:00Z", 2},
		{"Yuval Noah Harari", "10104344861", 3000.0, "1991-10-13T07:00:00Z", 3},
		{"Ruth de Souza", "10234344861", 2500.0, "1985-12-01T07:00:00Z", 0},
	}

	clients := make([]*domain.Client, len(rows))
	for i, r := range rows {
		birthDate, err := time.Parse(time.RFC3339, r.birthDate)
		if err != nil {
			panic(err)
		}
		clients[i] = &domain.Client{
			ID:        int64(i + 1),
			Name:      r.name,
			CPF:       r.cpf,
			Income:    r.income,
			BirthDate: birthDate.UTC(),
			Children:  r.children,
		}
	}
	return clients
}
