package postgres

import (
	"context"
	"database/sql"

	"petvet/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_id,
	name, species, breed, birth_date, weight, color,
	microchip_id, owner_name, owner_phone, owner_email,
	photo_url, notes,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		p.ID,
		p.OwnerID,
		p.Name,
		p.Species,
		p.Breed,
		toNullDate(p.BirthDate),
		toNullFloat(p.Weight),
		p.Color,
		p.MicrochipID,
		p.OwnerName,
		p.OwnerPhone,
		p.OwnerEmail,
		p.PhotoURL,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr("insert pet", "owner not found", err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			birth_date = $5,
			weight = $6,
			color = $7,
			microchip_id = $8,
			owner_name = $9,
			owner_phone = $10,
			owner_email = $11,
			photo_url = $12,
			notes = $13,
			updated_at = $14
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		toNullDate(p.BirthDate),
		toNullFloat(p.Weight),
		p.Color,
		p.MicrochipID,
		p.OwnerName,
		p.OwnerPhone,
		p.OwnerEmail,
		p.PhotoURL,
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return mapErr("update pet", "pet not found", err)
	}
	return affected(res, "update pet", "pet not found")
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	return p, mapErr("get pet", "pet not found", err)
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.query(ctx, `SELECT `+petColumns+` FROM pets ORDER BY created_at DESC, id DESC`)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	return r.query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`, ownerID)
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr("list pets", "", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, mapErr("list pets", "", err)
		}
		out = append(out, p)
	}
	return out, mapErr("list pets", "", rows.Err())
}

// Delete: registros y asignaciones caen por FK.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete pet", "pet not found", err)
	}
	return affected(res, "delete pet", "pet not found")
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p  pets.Pet
		bd sql.NullTime
		w  sql.NullFloat64
	)
	if err := s.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&bd,
		&w,
		&p.Color,
		&p.MicrochipID,
		&p.OwnerName,
		&p.OwnerPhone,
		&p.OwnerEmail,
		&p.PhotoURL,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	// birth_date es DATE: pgx lo devuelve como medianoche UTC
	p.BirthDate = fromNullDate(bd)
	if w.Valid {
		v := w.Float64
		p.Weight = &v
	}
	return p, nil
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
