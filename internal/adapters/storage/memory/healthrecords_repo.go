package memory

import (
	"context"
	"sort"

	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/platform/apperr"
)

type recordRepo struct {
	s *Store
}

func (r *recordRepo) Create(ctx context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[rec.PetID]; !ok {
		return healthrecords.Record{}, apperr.NotFound("pet not found")
	}
	rec.ID = r.s.nextID("registros_saude")
	r.s.records[rec.ID] = rec
	return rec, nil
}

func (r *recordRepo) GetByID(ctx context.Context, id int64) (healthrecords.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.records[id]
	if !ok {
		return healthrecords.Record{}, apperr.NotFound("health record not found")
	}
	return rec, nil
}

func (r *recordRepo) ListByOwner(ctx context.Context, ownerID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	return r.list(func(rec healthrecords.Record) bool {
		owner, ok := r.s.ownerOf(rec.PetID)
		return ok && owner == ownerID
	}, filter), nil
}

func (r *recordRepo) ListByPet(ctx context.Context, petID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	return r.list(func(rec healthrecords.Record) bool { return rec.PetID == petID }, filter), nil
}

func (r *recordRepo) list(keep func(healthrecords.Record) bool, filter healthrecords.ListFilter) []healthrecords.Record {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]healthrecords.Record, 0)
	for _, rec := range r.s.records {
		if !keep(rec) {
			continue
		}
		if filter.PetID > 0 && rec.PetID != filter.PetID {
			continue
		}
		if filter.Type != "" && rec.Type != filter.Type {
			continue
		}
		if !inRange(rec.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].Date, out[i].Time, out[i].ID, out[j].Date, out[j].Time, out[j].ID)
	})
	return out
}

func (r *recordRepo) Update(ctx context.Context, rec healthrecords.Record) (healthrecords.Record, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[rec.ID]; !ok {
		return healthrecords.Record{}, apperr.NotFound("health record not found")
	}
	r.s.records[rec.ID] = rec
	return rec, nil
}

func (r *recordRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.records[id]; !ok {
		return apperr.NotFound("health record not found")
	}
	delete(r.s.records, id)
	return nil
}
