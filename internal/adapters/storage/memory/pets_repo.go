package memory

import (
	"context"
	"sort"

	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/platform/apperr"
)

type petRepo struct {
	s *Store
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.ID = r.s.nextID("pets")
	r.s.pets[p.ID] = p
	return p, nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.pets[p.ID]; !exists {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	r.s.pets[p.ID] = p
	return p, nil
}

func (r *petRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pets[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	return p, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, ownerID int64) ([]pets.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.s.pets {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}

	// Orden estable por created_at asc, id como desempate
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// Delete borra la mascota y en cascada su agenda, despesas y registros.
func (r *petRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[id]; !ok {
		return apperr.NotFound("pet not found")
	}
	delete(r.s.pets, id)

	for k, a := range r.s.appointments {
		if a.PetID == id {
			delete(r.s.appointments, k)
		}
	}
	for k, e := range r.s.expenses {
		if e.PetID == id {
			delete(r.s.expenses, k)
		}
	}
	for k, rec := range r.s.records {
		if rec.PetID == id {
			delete(r.s.records, k)
		}
	}
	return nil
}
