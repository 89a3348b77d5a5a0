package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/taivex/taivex/config"
	"github.com/taivex/taivex/internal/application"
	"github.com/taivex/taivex/pkg/helpers"
)

// Seeds a demo owner account plus the shared system categories. Safe to run
// repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@taivex.local"
	password := "password123"
	username := "Demo Tailor"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO accounts (username, email, password_hash, is_verified, role)
		VALUES ($1, $2, $3, TRUE, 'owner')
		ON CONFLICT (lower(email)) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: id=%s email=%s password=%s\n", id, email, password)

	if _, err := db.Exec(`
		INSERT INTO shop_profiles (account_id, shop_name, bill_creators)
		VALUES ($1, 'Demo Tailors', ARRAY['Owner'])
		ON CONFLICT (account_id) DO NOTHING
	`, id); err != nil {
		log.Fatalf("failed to seed shop profile: %v", err)
	}

	var hasSystem bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE account_id IS NULL)`).Scan(&hasSystem); err != nil {
		log.Fatalf("failed to check categories: %v", err)
	}
	if hasSystem {
		fmt.Println("system categories already present")
		return
	}
	for _, c := range application.SystemCategories() {
		if _, err := db.Exec(`
			INSERT INTO categories (account_id, name, gender, is_custom, fields)
			VALUES (NULL, $1, $2, FALSE, $3::text[])
		`, c.Name, c.Gender, arrayLiteral(c.Fields)); err != nil {
			log.Fatalf("failed to seed category %s: %v", c.Name, err)
		}
	}
	fmt.Printf("seeded %d system categories\n", len(application.SystemCategories()))
}

// arrayLiteral renders a text[] literal; database/sql has no native []string
// binding.
func arrayLiteral(elems []string) string {
	quoted := make([]string, len(elems))
	for i, e := range elems {
		quoted[i] = `"` + strings.ReplaceAll(e, `"`, `\"`) + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}"
}
