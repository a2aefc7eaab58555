package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Category represents a phrase category stored in the database.
type Category struct {
	ID       string
	Name     string
	Icon     string
	Position int
}

// Phrase represents a selectable phrase stored in the database.
type Phrase struct {
	ID         string
	CategoryID string
	Text       string
	Short      string
	Custom     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PhraseRepository provides CRUD operations for phrases and their categories.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// UpsertCategory inserts a category or updates its name, icon, and position
// if it already exists. Used when importing the seeded phrase board.
func (r *PhraseRepository) UpsertCategory(c *Category) error {
	_, err := r.db.Exec(
		`INSERT INTO phrase_categories (id, name, icon, position)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, icon = excluded.icon, position = excluded.position`,
		c.ID, c.Name, c.Icon, c.Position,
	)
	return err
}

// Categories retrieves all phrase categories ordered by their board position.
func (r *PhraseRepository) Categories() ([]*Category, error) {
	rows, err := r.db.Query(
		`SELECT id, name, icon, position FROM phrase_categories ORDER BY position, name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Position); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// Create inserts a new phrase into the database.
func (r *PhraseRepository) Create(p *Phrase) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	var categoryID interface{}
	if p.CategoryID != "" {
		categoryID = p.CategoryID
	}

	_, err := r.db.Exec(
		`INSERT INTO phrases (id, category_id, text, short, custom, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, categoryID, p.Text, p.Short, p.Custom, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

// Upsert inserts a phrase or refreshes its text and short label if it already
// exists. Custom phrases are never overwritten by an import.
func (r *PhraseRepository) Upsert(p *Phrase) error {
	var categoryID interface{}
	if p.CategoryID != "" {
		categoryID = p.CategoryID
	}

	_, err := r.db.Exec(
		`INSERT INTO phrases (id, category_id, text, short, custom, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			text = excluded.text,
			short = excluded.short,
			updated_at = CURRENT_TIMESTAMP
		 WHERE phrases.custom = 0`,
		p.ID, categoryID, p.Text, p.Short, p.Custom,
	)
	return err
}

// GetByID retrieves a phrase by its ID.
func (r *PhraseRepository) GetByID(id string) (*Phrase, error) {
	p := &Phrase{}
	var categoryID sql.NullString
	var custom int

	err := r.db.QueryRow(
		`SELECT id, category_id, text, short, custom, created_at, updated_at
		 FROM phrases WHERE id = ?`,
		id,
	).Scan(&p.ID, &categoryID, &p.Text, &p.Short, &custom, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	p.CategoryID = categoryID.String
	p.Custom = custom != 0
	return p, nil
}

// List retrieves all phrases from the database.
func (r *PhraseRepository) List() ([]*Phrase, error) {
	return r.list(`SELECT id, category_id, text, short, custom, created_at, updated_at
		 FROM phrases ORDER BY created_at`)
}

// ListByCategory retrieves the phrases in a single category.
func (r *PhraseRepository) ListByCategory(categoryID string) ([]*Phrase, error) {
	return r.list(`SELECT id, category_id, text, short, custom, created_at, updated_at
		 FROM phrases WHERE category_id = ? ORDER BY created_at`, categoryID)
}

// ListCustom retrieves the user-defined phrases.
func (r *PhraseRepository) ListCustom() ([]*Phrase, error) {
	return r.list(`SELECT id, category_id, text, short, custom, created_at, updated_at
		 FROM phrases WHERE custom = 1 ORDER BY created_at`)
}

func (r *PhraseRepository) list(query string, args ...interface{}) ([]*Phrase, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []*Phrase
	for rows.Next() {
		p := &Phrase{}
		var categoryID sql.NullString
		var custom int

		err := rows.Scan(&p.ID, &categoryID, &p.Text, &p.Short, &custom, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}

		p.CategoryID = categoryID.String
		p.Custom = custom != 0
		phrases = append(phrases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return phrases, nil
}

// Update updates an existing phrase in the database.
func (r *PhraseRepository) Update(p *Phrase) error {
	p.UpdatedAt = time.Now()

	var categoryID interface{}
	if p.CategoryID != "" {
		categoryID = p.CategoryID
	}

	result, err := r.db.Exec(
		`UPDATE phrases SET category_id = ?, text = ?, short = ?, updated_at = ?
		 WHERE id = ?`,
		categoryID, p.Text, p.Short, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a phrase from the database by its ID.
func (r *PhraseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM phrases WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
