package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"petvet/internal/domain/records"
	"petvet/internal/platform/apperr"
)

type RecordsRepo struct {
	db *sql.DB
}

func NewRecordsRepo(db *sql.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

const recordColumns = `
	r.id, r.pet_id, r.vet_id,
	r.visit_date, r.reason,
	r.diagnosis, r.treatment, r.medications,
	r.next_visit_date, r.office_location, r.notes,
	r.created_at`

const recordViewFrom = `
	FROM vet_records r
	JOIN pets p ON p.id = r.pet_id
	JOIN users u ON u.id = p.owner_id`

// CreateAssigned inserta solo si existe la asignación (vet, pet): el chequeo y
// el insert son la misma sentencia, así no hay ventana entre ambos.
func (r *RecordsRepo) CreateAssigned(ctx context.Context, v records.VetRecord) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_records (
			id, pet_id, vet_id,
			visit_date, reason,
			diagnosis, treatment, medications,
			next_visit_date, office_location, notes,
			created_at
		)
		SELECT $1, $2, $3, $4::date, $5, $6, $7, $8, $9::date, $10, $11, $12::timestamptz
		WHERE EXISTS (
			SELECT 1 FROM vet_patients WHERE vet_id = $3 AND pet_id = $2
		)
	`,
		v.ID,
		v.PetID,
		v.VetID,
		v.VisitDate,
		v.Reason,
		v.Diagnosis,
		v.Treatment,
		v.Medications,
		toNullDate(v.NextVisitDate),
		v.OfficeLocation,
		v.Notes,
		v.CreatedAt,
	)
	if err != nil {
		return mapErr("insert record", "pet not found", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Store("insert record", err)
	}
	if n == 0 {
		return apperr.Forbidden("pet is not assigned to this vet")
	}
	return nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.VetRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM vet_records r WHERE r.id = $1`, id)
	v, err := scanRecord(row)
	return v, mapErr("get record", "record not found", err)
}

func (r *RecordsRepo) GetView(ctx context.Context, id string) (records.View, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`, p.name, p.species, u.username
		`+recordViewFrom+`
		WHERE r.id = $1
	`, id)
	v, err := scanRecordView(row)
	return v, mapErr("get record", "record not found", err)
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID string) ([]records.VetRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM vet_records r
		WHERE r.pet_id = $1
		ORDER BY r.visit_date DESC, r.created_at DESC, r.id DESC
	`, petID)
	if err != nil {
		return nil, mapErr("list records", "", err)
	}
	defer rows.Close()

	out := make([]records.VetRecord, 0)
	for rows.Next() {
		v, err := scanRecord(rows)
		if err != nil {
			return nil, mapErr("list records", "", err)
		}
		out = append(out, v)
	}
	return out, mapErr("list records", "", rows.Err())
}

func (r *RecordsRepo) ListByVet(ctx context.Context, vetID string, f records.Filter) ([]records.View, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + recordColumns + `, p.name, p.species, u.username ` + recordViewFrom + `
		WHERE r.vet_id = $1`)
	args := []any{vetID}
	argN := 2

	if f.PetID != "" {
		sb.WriteString(fmt.Sprintf(" AND r.pet_id = $%d", argN))
		args = append(args, f.PetID)
		argN++
	}
	if f.DateFrom != nil {
		sb.WriteString(fmt.Sprintf(" AND r.visit_date >= $%d::date", argN))
		args = append(args, *f.DateFrom)
		argN++
	}
	if f.DateTo != nil {
		sb.WriteString(fmt.Sprintf(" AND r.visit_date <= $%d::date", argN))
		args = append(args, *f.DateTo)
	}
	sb.WriteString(" ORDER BY r.visit_date DESC, r.created_at DESC, r.id DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, mapErr("list records", "", err)
	}
	defer rows.Close()

	out := make([]records.View, 0)
	for rows.Next() {
		v, err := scanRecordView(rows)
		if err != nil {
			return nil, mapErr("list records", "", err)
		}
		out = append(out, v)
	}
	return out, mapErr("list records", "", rows.Err())
}

func (r *RecordsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vet_records WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete record", "record not found", err)
	}
	return affected(res, "delete record", "record not found")
}

func recordDest(v *records.VetRecord, next *sql.NullTime) []any {
	return []any{
		&v.ID, &v.PetID, &v.VetID,
		&v.VisitDate, &v.Reason,
		&v.Diagnosis, &v.Treatment, &v.Medications,
		next, &v.OfficeLocation, &v.Notes,
		&v.CreatedAt,
	}
}

func scanRecord(s scanner) (records.VetRecord, error) {
	var (
		v    records.VetRecord
		next sql.NullTime
	)
	if err := s.Scan(recordDest(&v, &next)...); err != nil {
		return records.VetRecord{}, err
	}
	v.NextVisitDate = fromNullDate(next)
	return v, nil
}

func scanRecordView(s scanner) (records.View, error) {
	var (
		v    records.View
		next sql.NullTime
	)
	dest := append(recordDest(&v.VetRecord, &next), &v.PetName, &v.Species, &v.OwnerUsername)
	if err := s.Scan(dest...); err != nil {
		return records.View{}, err
	}
	v.NextVisitDate = fromNullDate(next)
	return v, nil
}
