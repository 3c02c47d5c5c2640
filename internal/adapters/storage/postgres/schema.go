package postgres

import (
	"context"
	"database/sql"

	"petvet/internal/platform/apperr"
)

// Las FKs cascadean: borrar un usuario se lleva sus mascotas (y con ellas
// registros y asignaciones), sus asignaciones como vet y sus vínculos.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		user_type     TEXT NOT NULL DEFAULT 'owner',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS pets (
		id           TEXT PRIMARY KEY,
		owner_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name         TEXT NOT NULL,
		species      TEXT NOT NULL,
		breed        TEXT NOT NULL DEFAULT '',
		birth_date   DATE,
		weight       DOUBLE PRECISION,
		color        TEXT NOT NULL DEFAULT '',
		microchip_id TEXT NOT NULL DEFAULT '',
		owner_name   TEXT NOT NULL DEFAULT '',
		owner_phone  TEXT NOT NULL DEFAULT '',
		owner_email  TEXT NOT NULL DEFAULT '',
		photo_url    TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS pets_owner_idx ON pets(owner_id)`,
	`CREATE TABLE IF NOT EXISTS vet_patients (
		id            TEXT PRIMARY KEY,
		vet_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		pet_id        TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		assigned_date DATE NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active',
		notes         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (vet_id, pet_id)
	)`,
	`CREATE TABLE IF NOT EXISTS vet_records (
		id              TEXT PRIMARY KEY,
		pet_id          TEXT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
		vet_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		visit_date      DATE NOT NULL,
		reason          TEXT NOT NULL,
		diagnosis       TEXT NOT NULL DEFAULT '',
		treatment       TEXT NOT NULL DEFAULT '',
		medications     TEXT NOT NULL DEFAULT '',
		next_visit_date DATE,
		office_location TEXT NOT NULL DEFAULT '',
		notes           TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS vet_records_vet_idx ON vet_records(vet_id, visit_date DESC)`,
	`CREATE INDEX IF NOT EXISTS vet_records_pet_idx ON vet_records(pet_id)`,
	`CREATE TABLE IF NOT EXISTS vet_offices (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		address     TEXT NOT NULL,
		detail_link TEXT NOT NULL DEFAULT '',
		external_id TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS preferred_vet_offices (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		office_id  TEXT NOT NULL REFERENCES vet_offices(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, office_id)
	)`,
	`CREATE TABLE IF NOT EXISTS vet_office_members (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		office_id  TEXT NOT NULL REFERENCES vet_offices(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (user_id, office_id)
	)`,
}

// Migrate crea el esquema si no existe. Idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return apperr.Store("migrate", err)
		}
	}
	return nil
}
