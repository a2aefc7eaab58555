package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Binding represents a gesture-event-to-plugin binding stored in the database.
type Binding struct {
	ID          string
	GestureType string
	PluginName  string
	ActionName  string
	Config      json.RawMessage
	Enabled     bool
	CreatedAt   time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository for this store.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Create inserts a new binding into the database.
func (r *BindingRepository) Create(b *Binding) error {
	b.CreatedAt = time.Now()

	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (id, gesture_type, plugin_name, action_name, config, enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.GestureType, b.PluginName, b.ActionName, string(config), b.Enabled, b.CreatedAt,
	)
	return err
}

// GetByID retrieves a binding by its ID.
func (r *BindingRepository) GetByID(id string) (*Binding, error) {
	b := &Binding{}
	var config string
	var enabled int

	err := r.db.QueryRow(
		`SELECT id, gesture_type, plugin_name, action_name, config, enabled, created_at
		 FROM bindings WHERE id = ?`,
		id,
	).Scan(&b.ID, &b.GestureType, &b.PluginName, &b.ActionName, &config, &enabled, &b.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b.Config = json.RawMessage(config)
	b.Enabled = enabled != 0
	return b, nil
}

// ListByGestureType retrieves the bindings for a gesture event type.
// Returns an empty slice when nothing is bound.
func (r *BindingRepository) ListByGestureType(gestureType string) ([]*Binding, error) {
	return r.list(
		`SELECT id, gesture_type, plugin_name, action_name, config, enabled, created_at
		 FROM bindings WHERE gesture_type = ? ORDER BY created_at`,
		gestureType,
	)
}

// List retrieves all bindings from the database.
func (r *BindingRepository) List() ([]*Binding, error) {
	return r.list(
		`SELECT id, gesture_type, plugin_name, action_name, config, enabled, created_at
		 FROM bindings ORDER BY created_at DESC`,
	)
}

func (r *BindingRepository) list(query string, args ...interface{}) ([]*Binding, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		var config string
		var enabled int

		err := rows.Scan(&b.ID, &b.GestureType, &b.PluginName, &b.ActionName, &config, &enabled, &b.CreatedAt)
		if err != nil {
			return nil, err
		}

		b.Config = json.RawMessage(config)
		b.Enabled = enabled != 0
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bindings, nil
}

// Update updates an existing binding in the database.
func (r *BindingRepository) Update(b *Binding) error {
	config := b.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	enabled := 0
	if b.Enabled {
		enabled = 1
	}

	result, err := r.db.Exec(
		`UPDATE bindings SET gesture_type = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		b.GestureType, b.PluginName, b.ActionName, string(config), enabled, b.ID,
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

// Delete removes a binding from the database by its ID.
func (r *BindingRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE id = ?`, id)
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
