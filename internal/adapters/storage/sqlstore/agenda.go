package sqlstore

import (
	"context"
	"fmt"

	"pet-care-manager/internal/domain/agenda"
)

type AgendaRepo struct {
	s *Store
}

const agendaColumns = `id, pet_id, procedimento, data, horario, profissional, observacoes, avaliacao_nota, avaliacao_comentario, created_at`

func (r *AgendaRepo) Create(ctx context.Context, a agenda.Appointment) (agenda.Appointment, error) {
	d := r.s.d
	err := r.s.db.QueryRowContext(ctx, d.Rebind(`
		INSERT INTO agenda (
			pet_id, procedimento, data, horario,
			profissional, observacoes,
			avaliacao_nota, avaliacao_comentario,
			created_at
		) VALUES (?,?,?,?,?,?,?,?,?)
		RETURNING id
	`),
		a.PetID,
		a.Procedure,
		a.Date,
		a.Time,
		a.Professional,
		a.Notes,
		a.RatingScore,
		a.RatingComment,
		d.timeArg(a.CreatedAt),
	).Scan(&a.ID)
	if err != nil {
		return agenda.Appointment{}, fmt.Errorf("insert appointment: %w", err)
	}
	return a, nil
}

func (r *AgendaRepo) GetByID(ctx context.Context, id int64) (agenda.Appointment, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.d.Rebind(`SELECT `+agendaColumns+` FROM agenda WHERE id = ?`), id)
	a, err := scanAppointment(row)
	if err != nil {
		return agenda.Appointment{}, notFound(err, "appointment not found")
	}
	return a, nil
}

func (r *AgendaRepo) ListByPet(ctx context.Context, petID int64, filter agenda.ListFilter) ([]agenda.Appointment, error) {
	w := &where{}
	w.add("pet_id = ?", petID)
	if filter.Procedure != "" {
		w.add("procedimento = ?", filter.Procedure)
	}
	w.dateRange("data", filter.From, filter.To)

	rows, err := r.s.db.QueryContext(ctx, r.s.d.Rebind(
		`SELECT `+agendaColumns+` FROM agenda`+w.String()+` ORDER BY data DESC, horario DESC, id DESC`,
	), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	out := make([]agenda.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AgendaRepo) Update(ctx context.Context, a agenda.Appointment) (agenda.Appointment, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`
		UPDATE agenda
		SET
			procedimento = ?,
			data = ?,
			horario = ?,
			profissional = ?,
			observacoes = ?,
			avaliacao_nota = ?,
			avaliacao_comentario = ?
		WHERE id = ?
	`),
		a.Procedure,
		a.Date,
		a.Time,
		a.Professional,
		a.Notes,
		a.RatingScore,
		a.RatingComment,
		a.ID,
	)
	if err != nil {
		return agenda.Appointment{}, fmt.Errorf("update appointment: %w", err)
	}
	if err := requireAffected(res, "appointment not found"); err != nil {
		return agenda.Appointment{}, err
	}
	return a, nil
}

func (r *AgendaRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`DELETE FROM agenda WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return requireAffected(res, "appointment not found")
}

func scanAppointment(row rowScanner) (agenda.Appointment, error) {
	var a agenda.Appointment
	err := row.Scan(
		&a.ID,
		&a.PetID,
		&a.Procedure,
		&a.Date,
		&a.Time,
		&a.Professional,
		&a.Notes,
		&a.RatingScore,
		&a.RatingComment,
		timeCol{&a.CreatedAt},
	)
	return a, err
}
