package config

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Upload bursts from several photographers at once keep more connections
	// busy than an ordinary CRUD app.
	db.SetMaxOpenConns(40)
	db.SetMaxIdleConns(8)

	return db, nil
}
