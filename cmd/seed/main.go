package main

import (
	"context"
	"fmt"
	"os"

	"quickbite/internal/config"
	"quickbite/internal/database"

	"github.com/jackc/pgx/v5"
)

// Seeds the catalogue with sample products. Safe to re-run; existing
// products are left untouched.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.Logger)

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	products := []struct {
		id        string
		name      string
		price     float64
		category  string
		available bool
	}{
		{"P001", "Veg Burger", 5.00, "burgers", true},
		{"P002", "Chicken Burger", 6.50, "burgers", true},
		{"P003", "Margherita Pizza", 10.50, "pizza", true},
		{"P004", "Pepperoni Pizza", 12.00, "pizza", true},
		{"P005", "Garlic Bread", 3.00, "sides", true},
		{"P006", "French Fries", 2.50, "sides", true},
		{"P007", "Caesar Salad", 7.00, "salads", true},
		{"P008", "Sushi Platter", 22.00, "sushi", false},
		{"P009", "Lemonade", 2.50, "drinks", true},
		{"P010", "Iced Coffee", 3.50, "drinks", true},
	}

	seeded := 0
	for _, p := range products {
		tag, err := conn.Exec(ctx,
			`INSERT INTO products (id, name, price, category, available)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			p.id, p.name, p.price, p.category, p.available,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed product %s: %v\n", p.id, err)
			os.Exit(1)
		}
		seeded += int(tag.RowsAffected())
	}

	fmt.Printf("seeded %d products\n", seeded)
}
