package memory

import (
	"context"
	"sort"

	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/platform/apperr"
)

type agendaRepo struct {
	s *Store
}

func (r *agendaRepo) Create(ctx context.Context, a agenda.Appointment) (agenda.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[a.PetID]; !ok {
		return agenda.Appointment{}, apperr.NotFound("pet not found")
	}
	a.ID = r.s.nextID("agenda")
	r.s.appointments[a.ID] = a
	return a, nil
}

func (r *agendaRepo) GetByID(ctx context.Context, id int64) (agenda.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.appointments[id]
	if !ok {
		return agenda.Appointment{}, apperr.NotFound("appointment not found")
	}
	return a, nil
}

func (r *agendaRepo) ListByPet(ctx context.Context, petID int64, filter agenda.ListFilter) ([]agenda.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]agenda.Appointment, 0)
	for _, a := range r.s.appointments {
		if a.PetID != petID {
			continue
		}
		if filter.Procedure != "" && a.Procedure != filter.Procedure {
			continue
		}
		if !inRange(a.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].Date, out[i].Time, out[i].ID, out[j].Date, out[j].Time, out[j].ID)
	})
	return out, nil
}

func (r *agendaRepo) Update(ctx context.Context, a agenda.Appointment) (agenda.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[a.ID]; !ok {
		return agenda.Appointment{}, apperr.NotFound("appointment not found")
	}
	r.s.appointments[a.ID] = a
	return a, nil
}

func (r *agendaRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.appointments[id]; !ok {
		return apperr.NotFound("appointment not found")
	}
	delete(r.s.appointments, id)
	return nil
}
