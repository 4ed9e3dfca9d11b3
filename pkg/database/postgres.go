package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/vaguthu/election-console/pkg/config"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

// NewPostgres returns a configured PostgreSQL client.
func NewPostgres(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Postgres error codes that callers translate into remediation guidance.
const (
	codeUndefinedTable        = "42P01"
	codeUndefinedColumn       = "42703"
	codeInsufficientPrivilege = "42501"
)

// Classify maps driver-level failures onto the store error taxonomy so that
// callers branch on error kinds instead of backend-specific message text.
// Errors that do not match a known kind are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case codeUndefinedTable:
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, appErrors.ErrStoreUnavailable.Message)
	case codeUndefinedColumn:
		return appErrors.Wrap(err, appErrors.ErrSchemaOutdated.Code, appErrors.ErrSchemaOutdated.Status, appErrors.ErrSchemaOutdated.Message)
	case codeInsufficientPrivilege:
		return appErrors.Wrap(err, appErrors.ErrAuthorizationDenied.Code, appErrors.ErrAuthorizationDenied.Status, appErrors.ErrAuthorizationDenied.Message)
	default:
		return err
	}
}
