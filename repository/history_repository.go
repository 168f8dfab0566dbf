package repository

import (
	"context"
	"fmt"

	"juspatria-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryRepository stores interpretation history in Postgres, one row per item.
// position keeps the newest-first order of the list as it was written.
type HistoryRepository struct {
	db *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Load returns every item of namespace, newest first
func (r *HistoryRepository) Load(ctx context.Context, namespace string) (models.HistoryItems, error) {
	query := `
		SELECT id, date_label, preview, COALESCE(user_question, ''), result, created_at
		FROM history_items
		WHERE namespace = $1
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query, namespace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(models.HistoryItems, 0)
	for rows.Next() {
		var item models.HistoryItem
		err := rows.Scan(
			&item.ID,
			&item.Date,
			&item.Preview,
			&item.UserQuestion,
			&item.Result,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// Save replaces the whole list of namespace in one transaction
func (r *HistoryRepository) Save(ctx context.Context, namespace string, items models.HistoryItems) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM history_items WHERE namespace = $1`, namespace); err != nil {
		return fmt.Errorf("failed to delete history: %w", err)
	}

	query := `
		INSERT INTO history_items (
			namespace, id, position, date_label, preview, user_question, result, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(query,
			namespace,
			item.ID,
			i,
			item.Date,
			item.Preview,
			item.UserQuestion,
			item.Result,
			item.CreatedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert history: %w", err)
	}

	return tx.Commit(ctx)
}

// Clear deletes every item of namespace
func (r *HistoryRepository) Clear(ctx context.Context, namespace string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM history_items WHERE namespace = $1`, namespace)
	return err
}
