package main

import (
	"context"
	"log"

	"juspatria-backend/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history_items (
    namespace VARCHAR(100) NOT NULL,
    id VARCHAR(64) NOT NULL,

    -- 0 is the newest item
    position INTEGER NOT NULL,

    date_label VARCHAR(32) NOT NULL,
    preview TEXT NOT NULL,
    user_question TEXT,
    result TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    PRIMARY KEY (namespace, id)
);

CREATE INDEX IF NOT EXISTS idx_history_items_position
    ON history_items(namespace, position);

CREATE TABLE IF NOT EXISTS files (
    id UUID PRIMARY KEY,
    filename VARCHAR(255) NOT NULL,
    mime_type VARCHAR(100) NOT NULL,
    size BIGINT NOT NULL CHECK (size >= 0),
    storage_path TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func main() {
	if !config.LoadDotEnv() {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("✓ history_items table ready")
	log.Println("✓ files table ready")

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM history_items WHERE namespace = $1", cfg.HistoryNamespace).Scan(&count); err != nil {
		log.Fatalf("Failed to verify schema: %v", err)
	}
	log.Printf("✓ %d history items stored under %q", count, cfg.HistoryNamespace)
}
