package postgres

import (
	"context"
	"database/sql"

	"petvet/internal/authz"
	"petvet/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `id, username, password_hash, role, user_type, created_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, u.ID, u.Username, u.PasswordHash, string(u.Role), string(u.Type), u.CreatedAt)
	return mapErr("insert user", "user not found", err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	return u, mapErr("get user", "user not found", err)
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	return u, mapErr("get user", "user not found", err)
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr("list users", "", err)
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr("list users", "", err)
		}
		out = append(out, u)
	}
	return out, mapErr("list users", "", rows.Err())
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2, password_hash = $3, role = $4, user_type = $5
		WHERE id = $1
	`, u.ID, u.Username, u.PasswordHash, string(u.Role), string(u.Type))
	if err != nil {
		return mapErr("update user", "user not found", err)
	}
	return affected(res, "update user", "user not found")
}

// Delete borra el usuario y todo lo que cuelga de él en una transacción.
// Las FKs también cascadean; el borrado explícito deja el orden a la vista.
func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr("delete user", "user not found", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM vet_records WHERE vet_id = $1 OR pet_id IN (SELECT id FROM pets WHERE owner_id = $1)`,
		`DELETE FROM vet_patients WHERE vet_id = $1 OR pet_id IN (SELECT id FROM pets WHERE owner_id = $1)`,
		`DELETE FROM preferred_vet_offices WHERE user_id = $1`,
		`DELETE FROM vet_office_members WHERE user_id = $1`,
		`DELETE FROM pets WHERE owner_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return mapErr("delete user", "user not found", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete user", "user not found", err)
	}
	if err := affected(res, "delete user", "user not found"); err != nil {
		return err
	}
	return mapErr("delete user", "user not found", tx.Commit())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (users.User, error) {
	var (
		u          users.User
		role, kind string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &kind, &u.CreatedAt); err != nil {
		return users.User{}, err
	}
	u.Role = authz.Role(role)
	u.Type = authz.UserType(kind)
	return u, nil
}
