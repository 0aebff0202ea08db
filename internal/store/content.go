package store

import (
	"database/sql"
	"fmt"

	"github.com/postsparkhq/postspark/internal/model"
)

type ContentStore struct {
	db *sql.DB
}

func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

func scanContent(scanner interface{ Scan(...any) error }) (*model.GeneratedContent, error) {
	var c model.GeneratedContent
	err := scanner.Scan(&c.ID, &c.UserID, &c.Content, &c.Prompt, &c.ContentType, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const contentCols = `id, user_id, content, prompt, content_type, created_at`

// Save appends one history entry. History is append-only; nothing updates or
// deletes rows here.
func (s *ContentStore) Save(userID int64, content, prompt, contentType string) (*model.GeneratedContent, error) {
	result, err := s.db.Exec(
		`INSERT INTO generated_content (user_id, content, prompt, content_type) VALUES (?, ?, ?, ?)`,
		userID, content, prompt, contentType,
	)
	if err != nil {
		return nil, fmt.Errorf("insert generated content: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ContentStore) GetByID(id int64) (*model.GeneratedContent, error) {
	row := s.db.QueryRow(`SELECT `+contentCols+` FROM generated_content WHERE id = ?`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get generated content: %w", err)
	}
	return c, nil
}

// ListByUser returns up to limit entries, most recent first.
func (s *ContentStore) ListByUser(userID int64, limit int) ([]model.GeneratedContent, error) {
	rows, err := s.db.Query(
		`SELECT `+contentCols+` FROM generated_content WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list generated content: %w", err)
	}
	defer rows.Close()

	var items []model.GeneratedContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generated content: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generated content: %w", err)
	}
	return items, nil
}
