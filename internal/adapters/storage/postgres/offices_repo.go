package postgres

import (
	"context"
	"database/sql"

	"petvet/internal/domain/offices"
	"petvet/internal/platform/apperr"
)

type OfficesRepo struct {
	db *sql.DB
}

func NewOfficesRepo(db *sql.DB) *OfficesRepo {
	return &OfficesRepo{db: db}
}

// Cada LinkKind vive en su propia tabla, con las mismas columnas.
func linkTable(k offices.LinkKind) (string, error) {
	switch k {
	case offices.LinkPreferred:
		return "preferred_vet_offices", nil
	case offices.LinkMember:
		return "vet_office_members", nil
	}
	return "", apperr.Validation("unknown link kind")
}

const officeColumns = `id, name, address, detail_link, external_id, created_at`

func (r *OfficesRepo) CreatePartnered(ctx context.Context, o offices.PartneredOffice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vet_offices (`+officeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, o.ID, o.Name, o.Address, o.DetailLink, o.ExternalID, o.CreatedAt)
	return mapErr("insert office", "office not found", err)
}

func (r *OfficesRepo) GetPartnered(ctx context.Context, id string) (offices.PartneredOffice, error) {
	var o offices.PartneredOffice
	err := r.db.QueryRowContext(ctx, `SELECT `+officeColumns+` FROM vet_offices WHERE id = $1`, id).
		Scan(&o.ID, &o.Name, &o.Address, &o.DetailLink, &o.ExternalID, &o.CreatedAt)
	if err != nil {
		return offices.PartneredOffice{}, mapErr("get office", "office not found", err)
	}
	return o, nil
}

func (r *OfficesRepo) ListPartnered(ctx context.Context) ([]offices.PartneredOffice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+officeColumns+` FROM vet_offices ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr("list offices", "", err)
	}
	defer rows.Close()

	out := make([]offices.PartneredOffice, 0)
	for rows.Next() {
		var o offices.PartneredOffice
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &o.DetailLink, &o.ExternalID, &o.CreatedAt); err != nil {
			return nil, mapErr("list offices", "", err)
		}
		out = append(out, o)
	}
	return out, mapErr("list offices", "", rows.Err())
}

func (r *OfficesRepo) UpdatePartnered(ctx context.Context, o offices.PartneredOffice) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vet_offices
		SET name = $2, address = $3, detail_link = $4, external_id = $5
		WHERE id = $1
	`, o.ID, o.Name, o.Address, o.DetailLink, o.ExternalID)
	if err != nil {
		return mapErr("update office", "office not found", err)
	}
	return affected(res, "update office", "office not found")
}

// DeletePartnered: los vínculos caen por FK.
func (r *OfficesRepo) DeletePartnered(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vet_offices WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete office", "office not found", err)
	}
	return affected(res, "delete office", "office not found")
}

func (r *OfficesRepo) AddLink(ctx context.Context, l offices.Link) error {
	table, err := linkTable(l.Kind)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, user_id, office_id, created_at)
		VALUES ($1,$2,$3,$4)
	`, l.ID, l.UserID, l.OfficeID, l.CreatedAt)
	return mapErr("insert link", "office not found", err)
}

func (r *OfficesRepo) LinkExists(ctx context.Context, kind offices.LinkKind, userID, officeID string) (bool, error) {
	table, err := linkTable(kind)
	if err != nil {
		return false, err
	}
	var ok bool
	err = r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM `+table+` WHERE user_id = $1 AND office_id = $2)
	`, userID, officeID).Scan(&ok)
	if err != nil {
		return false, mapErr("check link", "", err)
	}
	return ok, nil
}

func (r *OfficesRepo) GetLink(ctx context.Context, kind offices.LinkKind, id string) (offices.Link, error) {
	table, err := linkTable(kind)
	if err != nil {
		return offices.Link{}, err
	}
	l := offices.Link{Kind: kind}
	err = r.db.QueryRowContext(ctx, `SELECT id, user_id, office_id, created_at FROM `+table+` WHERE id = $1`, id).
		Scan(&l.ID, &l.UserID, &l.OfficeID, &l.CreatedAt)
	if err != nil {
		return offices.Link{}, mapErr("get link", "link not found", err)
	}
	return l, nil
}

func (r *OfficesRepo) ListLinks(ctx context.Context, kind offices.LinkKind, userID string) ([]offices.LinkView, error) {
	table, err := linkTable(kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, l.office_id, l.created_at, o.name, o.address, o.detail_link
		FROM `+table+` l
		JOIN vet_offices o ON o.id = l.office_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`, userID)
	if err != nil {
		return nil, mapErr("list links", "", err)
	}
	defer rows.Close()

	out := make([]offices.LinkView, 0)
	for rows.Next() {
		v := offices.LinkView{Link: offices.Link{Kind: kind}}
		if err := rows.Scan(&v.ID, &v.UserID, &v.OfficeID, &v.CreatedAt, &v.Name, &v.Address, &v.DetailLink); err != nil {
			return nil, mapErr("list links", "", err)
		}
		out = append(out, v)
	}
	return out, mapErr("list links", "", rows.Err())
}

func (r *OfficesRepo) DeleteLink(ctx context.Context, kind offices.LinkKind, id string) error {
	table, err := linkTable(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete link", "link not found", err)
	}
	return affected(res, "delete link", "link not found")
}
