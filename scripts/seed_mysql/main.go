package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/iftm/client-service/internal/config"
	"github.com/iftm/client-service/internal/infrastructure/seed"
)

// Loads the reference clients into the MySQL clients table. Run the API
// once first so the table exists.
func main() {
	cfg := config.Load().Database.MySQL

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v\nDSN: %s:%s@tcp(%s)/%s",
			err, cfg.User, "***", cfg.Host, cfg.Database)
	}

	fmt.Println("Connected to MySQL successfully")

	query := `
		INSERT INTO clients (id, name, cpf, income, birth_date, children, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		    name = VALUES(name),
		    cpf = VALUES(cpf),
		    income = VALUES(income),
		    birth_date = VALUES(birth_date),
		    children = VALUES(children),
		    updated_at = VALUES(updated_at)
	`

	now := time.Now().UTC()
	for _, c := range seed.Clients() {
		if _, err := db.Exec(query, c.ID, c.Name, c.CPF, c.Income, c.BirthDate, c.Children, now, now); err != nil {
			log.Fatalf("Failed to seed client %d: %v", c.ID, err)
		}

		fmt.Printf("Seeded client: %d %s (income %.2f)\n", c.ID, c.Name, c.Income)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("Clients with income >= 4000: ids 4, 6, 7, 8 and 10")
}
