package memory

import (
	"context"
	"sort"

	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/platform/apperr"
)

type expenseRepo struct {
	s *Store
}

func (r *expenseRepo) Create(ctx context.Context, e expenses.Expense) (expenses.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pets[e.PetID]; !ok {
		return expenses.Expense{}, apperr.NotFound("pet not found")
	}
	e.ID = r.s.nextID("despesas")
	r.s.expenses[e.ID] = e
	return e, nil
}

func (r *expenseRepo) GetByID(ctx context.Context, id int64) (expenses.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.expenses[id]
	if !ok {
		return expenses.Expense{}, apperr.NotFound("expense not found")
	}
	return e, nil
}

func (r *expenseRepo) ListByOwner(ctx context.Context, ownerID int64, filter expenses.ListFilter) ([]expenses.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]expenses.Expense, 0)
	for _, e := range r.s.expenses {
		if owner, ok := r.s.ownerOf(e.PetID); !ok || owner != ownerID {
			continue
		}
		if filter.PetID > 0 && e.PetID != filter.PetID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if !inRange(e.Date, filter.From, filter.To) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].Date, "", out[i].ID, out[j].Date, "", out[j].ID)
	})
	return out, nil
}

func (r *expenseRepo) Update(ctx context.Context, e expenses.Expense) (expenses.Expense, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.expenses[e.ID]; !ok {
		return expenses.Expense{}, apperr.NotFound("expense not found")
	}
	r.s.expenses[e.ID] = e
	return e, nil
}

func (r *expenseRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.expenses[id]; !ok {
		return apperr.NotFound("expense not found")
	}
	delete(r.s.expenses, id)
	return nil
}
