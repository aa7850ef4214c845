package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/campnet-io/campnet-backend/config"
	"github.com/campnet-io/campnet-backend/pkg/helpers"
)

// Seeds a verified admin, a publisher, and one sample course so a fresh
// environment is usable right after migrations.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	adminID := seedUser(db, "admin@campnet.dev", "password123", "Campnet Admin", "+10000000001", "admin")
	publisherID := seedUser(db, "publisher@campnet.dev", "password123", "Demo Publisher", "+10000000002", "publisher")
	seedUser(db, "member@campnet.dev", "password123", "Demo Member", "+10000000003", "user")
	fmt.Printf("seeded admin=%s publisher=%s\n", adminID, publisherID)

	courseID := seedCourse(db, publisherID, "Backend Fundamentals",
		"HTTP, databases and queues from the ground up.", 8, 4000, "beginner")
	fmt.Printf("seeded course: id=%s\n", courseID)
}

// seedCourse keys on (owner_id, name) so re-running the seed reuses the
// existing row instead of inserting a duplicate.
func seedCourse(db *sql.DB, ownerID, name, description string, weeks int, tuition float64, skill string) string {
	var id string
	err := db.QueryRow(`SELECT id FROM courses WHERE owner_id = $1 AND name = $2`, ownerID, name).Scan(&id)
	if err == nil {
		return id
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("failed to look up course %s: %v", name, err)
	}
	err = db.QueryRow(`
		INSERT INTO courses (name, description, owner_id, weeks, tuition, minimum_skill)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, name, description, ownerID, weeks, tuition, skill).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed course %s: %v", name, err)
	}
	return id
}

func seedUser(db *sql.DB, email, password, name, phone, role string) string {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name, phone, role, is_verified)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
		RETURNING id
	`, email, hash, name, phone, role).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}
