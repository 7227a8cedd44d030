package database

import "endify/storage"

// Repository is the SQLite task backend
type Repository struct {
	db *DB
}

var _ storage.Provider = (*Repository)(nil)

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Close releases the underlying database
func (r *Repository) Close() error {
	return r.db.Close()
}
