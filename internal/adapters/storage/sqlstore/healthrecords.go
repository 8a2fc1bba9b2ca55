package sqlstore

import (
	"context"
	"fmt"

	"pet-care-manager/internal/domain/healthrecords"
)

type RecordsRepo struct {
	s *Store
}

const recordColumns = `r.id, r.pet_id, r.user_id, r.tipo_registro, r.data, r.horario, r.profissional, r.file_path, r.created_at`

func (r *RecordsRepo) Create(ctx context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	d := r.s.d
	err := r.s.db.QueryRowContext(ctx, d.Rebind(`
		INSERT INTO registros_saude (
			pet_id, user_id, tipo_registro, data, horario, profissional, file_path, created_at
		) VALUES (?,?,?,?,?,?,?,?)
		RETURNING id
	`),
		rec.PetID,
		rec.UserID,
		rec.Type,
		rec.Date,
		rec.Time,
		rec.Professional,
		rec.FilePath,
		d.timeArg(rec.CreatedAt),
	).Scan(&rec.ID)
	if err != nil {
		return healthrecords.Record{}, fmt.Errorf("insert health record: %w", err)
	}
	return rec, nil
}

func (r *RecordsRepo) GetByID(ctx context.Context, id int64) (healthrecords.Record, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.d.Rebind(`SELECT `+recordColumns+` FROM registros_saude r WHERE r.id = ?`), id)
	rec, err := scanRecord(row)
	if err != nil {
		return healthrecords.Record{}, notFound(err, "health record not found")
	}
	return rec, nil
}

func (r *RecordsRepo) ListByOwner(ctx context.Context, ownerID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	w := &where{}
	w.add("p.owner_id = ?", ownerID)
	return r.list(ctx, `registros_saude r JOIN pets p ON p.id = r.pet_id`, w, filter)
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	w := &where{}
	w.add("r.pet_id = ?", petID)
	return r.list(ctx, `registros_saude r`, w, filter)
}

func (r *RecordsRepo) list(ctx context.Context, from string, w *where, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	if filter.PetID > 0 {
		w.add("r.pet_id = ?", filter.PetID)
	}
	if filter.Type != "" {
		w.add("r.tipo_registro = ?", filter.Type)
	}
	w.dateRange("r.data", filter.From, filter.To)

	rows, err := r.s.db.QueryContext(ctx, r.s.d.Rebind(
		`SELECT `+recordColumns+` FROM `+from+w.String()+` ORDER BY r.data DESC, r.horario DESC, r.id DESC`,
	), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	defer rows.Close()

	out := make([]healthrecords.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecordsRepo) Update(ctx context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`
		UPDATE registros_saude
		SET
			data = ?,
			horario = ?,
			profissional = ?,
			file_path = ?
		WHERE id = ?
	`),
		rec.Date,
		rec.Time,
		rec.Professional,
		rec.FilePath,
		rec.ID,
	)
	if err != nil {
		return healthrecords.Record{}, fmt.Errorf("update health record: %w", err)
	}
	if err := requireAffected(res, "health record not found"); err != nil {
		return healthrecords.Record{}, err
	}
	return rec, nil
}

func (r *RecordsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`DELETE FROM registros_saude WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete health record: %w", err)
	}
	return requireAffected(res, "health record not found")
}

func scanRecord(row rowScanner) (healthrecords.Record, error) {
	var rec healthrecords.Record
	err := row.Scan(
		&rec.ID,
		&rec.PetID,
		&rec.UserID,
		&rec.Type,
		&rec.Date,
		&rec.Time,
		&rec.Professional,
		&rec.FilePath,
		timeCol{&rec.CreatedAt},
	)
	return rec, err
}
