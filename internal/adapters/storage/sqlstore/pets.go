package sqlstore

import (
	"context"
	"fmt"

	"pet-care-manager/internal/domain/pets"
)

type PetsRepo struct {
	s *Store
}

const petColumns = `id, owner_id, name, species, breed, sex, age, weight, height, notes, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	d := r.s.d
	err := r.s.db.QueryRowContext(ctx, d.Rebind(`
		INSERT INTO pets (
			owner_id, name, species, breed, sex,
			age, weight, height, notes,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?)
		RETURNING id
	`),
		p.OwnerID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.Age,
		p.Weight,
		p.Height,
		p.Notes,
		d.timeArg(p.CreatedAt),
		d.timeArg(p.UpdatedAt),
	).Scan(&p.ID)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("insert pet: %w", err)
	}
	return p, nil
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	d := r.s.d
	res, err := r.s.db.ExecContext(ctx, d.Rebind(`
		UPDATE pets
		SET
			name = ?,
			species = ?,
			breed = ?,
			sex = ?,
			age = ?,
			weight = ?,
			height = ?,
			notes = ?,
			updated_at = ?
		WHERE id = ?
	`),
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.Age,
		p.Weight,
		p.Height,
		p.Notes,
		d.timeArg(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return pets.Pet{}, fmt.Errorf("update pet: %w", err)
	}
	if err := requireAffected(res, "pet not found"); err != nil {
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.d.Rebind(`SELECT `+petColumns+` FROM pets WHERE id = ?`), id)
	p, err := scanPet(row)
	if err != nil {
		return pets.Pet{}, notFound(err, "pet not found")
	}
	return p, nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]pets.Pet, error) {
	rows, err := r.s.db.QueryContext(ctx, r.s.d.Rebind(`
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_id = ?
		ORDER BY created_at ASC, id ASC
	`), ownerID)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete borra los hijos explícitamente además del ON DELETE CASCADE, así no
// depende de que SQLite tenga foreign_keys activado en cada conexión.
func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	d := r.s.d
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete pet: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"agenda", "despesas", "registros_saude"} {
		if _, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM `+table+` WHERE pet_id = ?`), id); err != nil {
			return fmt.Errorf("delete %s of pet %d: %w", table, id, err)
		}
	}
	res, err := tx.ExecContext(ctx, d.Rebind(`DELETE FROM pets WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if err := requireAffected(res, "pet not found"); err != nil {
		return err
	}
	return tx.Commit()
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&p.Age,
		&p.Weight,
		&p.Height,
		&p.Notes,
		timeCol{&p.CreatedAt},
		timeCol{&p.UpdatedAt},
	)
	return p, err
}
