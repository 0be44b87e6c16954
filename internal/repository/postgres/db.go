package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/medcita/clinic-api/internal/apperror"
	"github.com/medcita/clinic-api/internal/config"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, apperror.Wrap(apperror.Connection, "failed to connect to database", err)
	}

	if err := db.Ping(); err != nil {
		return nil, apperror.Wrap(apperror.Connection, "failed to ping database", err)
	}

	return db, nil
}
