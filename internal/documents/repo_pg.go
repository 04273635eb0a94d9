package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    file_name,
    mime_type,
    size_bytes,
    storage_key,
    text_key,
    mode,
    is_resume,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var isResume sql.NullBool
	if doc.IsResume != nil {
		isResume = sql.NullBool{Bool: *doc.IsResume, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.TextKey,
		doc.Mode,
		isResume,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	const query = `
SELECT id, file_name, mime_type, size_bytes, storage_key, text_key, mode, is_resume, created_at
FROM documents
WHERE id = $1
LIMIT 1`
	var doc Document
	var isResume sql.NullBool
	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.ID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.TextKey,
		&doc.Mode,
		&isResume,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if isResume.Valid {
		doc.IsResume = &isResume.Bool
	}
	return doc, nil
}

// List lists documents ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, file_name, mime_type, size_bytes, storage_key, text_key, mode, is_resume, created_at
FROM documents
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		var isResume sql.NullBool
		if err := rows.Scan(
			&doc.ID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.TextKey,
			&doc.Mode,
			&isResume,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		if isResume.Valid {
			doc.IsResume = &isResume.Bool
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateText stores the extracted text key for a document.
func (r *PGRepo) UpdateText(ctx context.Context, documentID, textKey string) error {
	const query = `
UPDATE documents
SET text_key = $1
WHERE id = $2 AND text_key = ''`
	_, err := r.DB.ExecContext(ctx, query, textKey, documentID)
	return err
}

var _ DocumentsRepo = (*PGRepo)(nil)
