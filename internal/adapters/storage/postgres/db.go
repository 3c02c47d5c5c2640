package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"petvet/internal/platform/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Códigos SQLSTATE que el dominio distingue.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// mapErr traduce errores del driver al vocabulario de apperr.
// notFound es el mensaje para sql.ErrNoRows y FKs rotas.
func mapErr(op, notFound string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(notFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperr.Wrap(apperr.KindConflict, op+": already exists", err)
		case foreignKeyViolation:
			return apperr.Wrap(apperr.KindNotFound, notFound, err)
		}
	}
	return apperr.Store(op, err)
}

// affected: 0 filas => NotFound.
func affected(res sql.Result, op, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store(op, err)
	}
	if n == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}

// Columnas DATE nullable.
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullDate(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
