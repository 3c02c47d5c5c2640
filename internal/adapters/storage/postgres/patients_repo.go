package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"petvet/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

const assignmentColumns = `a.id, a.vet_id, a.pet_id, a.assigned_date, a.status, a.notes, a.created_at`

// La vista trae la mascota completa + username del dueño.
const patientViewSelect = `
	SELECT ` + assignmentColumns + `,
		p.id, p.owner_id,
		p.name, p.species, p.breed, p.birth_date, p.weight, p.color,
		p.microchip_id, p.owner_name, p.owner_phone, p.owner_email,
		p.photo_url, p.notes,
		p.created_at, p.updated_at,
		u.username
	FROM vet_patients a
	JOIN pets p ON p.id = a.pet_id
	JOIN users u ON u.id = p.owner_id`

func (r *PatientsRepo) Create(ctx context.Context, a patients.Assignment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_patients (id, vet_id, pet_id, assigned_date, status, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.VetID, a.PetID, a.AssignedDate, string(a.Status), a.Notes, a.CreatedAt)
	return mapErr("insert assignment", "pet not found", err)
}

func (r *PatientsRepo) GetByID(ctx context.Context, id string) (patients.Assignment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM vet_patients a WHERE a.id = $1`, id)
	a, err := scanAssignment(row)
	return a, mapErr("get assignment", "assignment not found", err)
}

func (r *PatientsRepo) GetView(ctx context.Context, id string) (patients.View, error) {
	row := r.db.QueryRowContext(ctx, patientViewSelect+` WHERE a.id = $1`, id)
	v, err := scanPatientView(row)
	return v, mapErr("get assignment", "assignment not found", err)
}

func (r *PatientsRepo) ListByVet(ctx context.Context, vetID string, f patients.Filter) ([]patients.View, error) {
	var sb strings.Builder
	sb.WriteString(patientViewSelect + ` WHERE a.vet_id = $1`)
	args := []any{vetID}
	argN := 2

	if f.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND a.status = $%d", argN))
		args = append(args, string(f.Status))
		argN++
	}
	if f.Species != "" {
		sb.WriteString(fmt.Sprintf(" AND p.species = $%d", argN))
		args = append(args, f.Species)
	}
	sb.WriteString(" ORDER BY a.assigned_date DESC, a.created_at DESC, a.id DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapErr("list patients", "", err)
	}
	defer rows.Close()

	out := make([]patients.View, 0)
	for rows.Next() {
		v, err := scanPatientView(rows)
		if err != nil {
			return nil, mapErr("list patients", "", err)
		}
		out = append(out, v)
	}
	return out, mapErr("list patients", "", rows.Err())
}

func (r *PatientsRepo) Exists(ctx context.Context, vetID, petID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM vet_patients WHERE vet_id = $1 AND pet_id = $2)
	`, vetID, petID).Scan(&ok)
	if err != nil {
		return false, mapErr("check assignment", "", err)
	}
	return ok, nil
}

// Update solo toca status y notes.
func (r *PatientsRepo) Update(ctx context.Context, a patients.Assignment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vet_patients SET status = $2, notes = $3 WHERE id = $1
	`, a.ID, string(a.Status), a.Notes)
	if err != nil {
		return mapErr("update assignment", "assignment not found", err)
	}
	return affected(res, "update assignment", "assignment not found")
}

func (r *PatientsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vet_patients WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete assignment", "assignment not found", err)
	}
	return affected(res, "delete assignment", "assignment not found")
}

func assignmentDest(a *patients.Assignment, status *string) []any {
	return []any{&a.ID, &a.VetID, &a.PetID, &a.AssignedDate, status, &a.Notes, &a.CreatedAt}
}

func scanAssignment(s scanner) (patients.Assignment, error) {
	var (
		a      patients.Assignment
		status string
	)
	if err := s.Scan(assignmentDest(&a, &status)...); err != nil {
		return patients.Assignment{}, err
	}
	a.Status = patients.Status(status)
	return a, nil
}

func scanPatientView(s scanner) (patients.View, error) {
	var (
		v      patients.View
		status string
		bd     sql.NullTime
		w      sql.NullFloat64
	)
	p := &v.Pet
	dest := append(assignmentDest(&v.Assignment, &status),
		&p.ID, &p.OwnerID,
		&p.Name, &p.Species, &p.Breed, &bd, &w, &p.Color,
		&p.MicrochipID, &p.OwnerName, &p.OwnerPhone, &p.OwnerEmail,
		&p.PhotoURL, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
		&v.OwnerUsername,
	)
	if err := s.Scan(dest...); err != nil {
		return patients.View{}, err
	}
	v.Status = patients.Status(status)
	p.BirthDate = fromNullDate(bd)
	if w.Valid {
		f := w.Float64
		p.Weight = &f
	}
	return v, nil
}
