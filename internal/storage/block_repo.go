package storage

import (
	"context"
	"database/sql"
	"fmt"

	"archive-lens/internal/backend"
)

// BlockRepo provides methods for primary document block operations.
type BlockRepo struct {
	db *sql.DB
}

// NewBlockRepo creates a new BlockRepo.
func NewBlockRepo(db *sql.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// Replace swaps all blocks of an archive for the given ones, keeping their
// order, in a single transaction.
func (r *BlockRepo) Replace(ctx context.Context, archiveID string, blocks []backend.Block) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM docx_blocks WHERE archive_id = ?", archiveID); err != nil {
		return fmt.Errorf("failed to clear blocks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO docx_blocks (archive_id, block_id, seq, text) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare block insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, b := range blocks {
		if _, err := stmt.ExecContext(ctx, archiveID, b.BlockID, i, b.Text); err != nil {
			return fmt.Errorf("failed to insert block %s: %w", b.BlockID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blocks: %w", err)
	}
	return nil
}

// List returns the blocks of an archive in document order.
func (r *BlockRepo) List(ctx context.Context, archiveID string) ([]backend.Block, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT block_id, text FROM docx_blocks WHERE archive_id = ? ORDER BY seq",
		archiveID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	blocks := []backend.Block{}
	for rows.Next() {
		var b backend.Block
		if err := rows.Scan(&b.BlockID, &b.Text); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blocks: %w", err)
	}
	return blocks, nil
}

// Text returns the text of one block. Returns ErrNotFound if it does not exist.
func (r *BlockRepo) Text(ctx context.Context, archiveID, blockID string) (string, error) {
	var text string
	err := r.db.QueryRowContext(ctx,
		"SELECT text FROM docx_blocks WHERE archive_id = ? AND block_id = ?",
		archiveID, blockID,
	).Scan(&text)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query block: %w", err)
	}
	return text, nil
}
