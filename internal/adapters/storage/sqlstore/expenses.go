package sqlstore

import (
	"context"
	"fmt"

	"pet-care-manager/internal/domain/expenses"
)

type ExpensesRepo struct {
	s *Store
}

const expenseColumns = `e.id, e.pet_id, e.categoria, e.descricao, e.valor, e.data, e.observacoes, e.created_at`

func (r *ExpensesRepo) Create(ctx context.Context, e expenses.Expense) (expenses.Expense, error) {
	d := r.s.d
	err := r.s.db.QueryRowContext(ctx, d.Rebind(`
		INSERT INTO despesas (
			pet_id, categoria, descricao, valor, data, observacoes, created_at
		) VALUES (?,?,?,?,?,?,?)
		RETURNING id
	`),
		e.PetID,
		e.Category,
		e.Description,
		e.Amount.StringFixed(2),
		e.Date,
		e.Notes,
		d.timeArg(e.CreatedAt),
	).Scan(&e.ID)
	if err != nil {
		return expenses.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return e, nil
}

func (r *ExpensesRepo) GetByID(ctx context.Context, id int64) (expenses.Expense, error) {
	row := r.s.db.QueryRowContext(ctx, r.s.d.Rebind(`SELECT `+expenseColumns+` FROM despesas e WHERE e.id = ?`), id)
	e, err := scanExpense(row)
	if err != nil {
		return expenses.Expense{}, notFound(err, "expense not found")
	}
	return e, nil
}

func (r *ExpensesRepo) ListByOwner(ctx context.Context, ownerID int64, filter expenses.ListFilter) ([]expenses.Expense, error) {
	w := &where{}
	w.add("p.owner_id = ?", ownerID)
	if filter.PetID > 0 {
		w.add("e.pet_id = ?", filter.PetID)
	}
	if filter.Category != "" {
		w.add("e.categoria = ?", filter.Category)
	}
	w.dateRange("e.data", filter.From, filter.To)

	rows, err := r.s.db.QueryContext(ctx, r.s.d.Rebind(
		`SELECT `+expenseColumns+` FROM despesas e JOIN pets p ON p.id = e.pet_id`+w.String()+
			` ORDER BY e.data DESC, e.id DESC`,
	), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]expenses.Expense, 0)
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *ExpensesRepo) Update(ctx context.Context, e expenses.Expense) (expenses.Expense, error) {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`
		UPDATE despesas
		SET
			categoria = ?,
			descricao = ?,
			valor = ?,
			data = ?,
			observacoes = ?
		WHERE id = ?
	`),
		e.Category,
		e.Description,
		e.Amount.StringFixed(2),
		e.Date,
		e.Notes,
		e.ID,
	)
	if err != nil {
		return expenses.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if err := requireAffected(res, "expense not found"); err != nil {
		return expenses.Expense{}, err
	}
	return e, nil
}

func (r *ExpensesRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.s.db.ExecContext(ctx, r.s.d.Rebind(`DELETE FROM despesas WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res, "expense not found")
}

func scanExpense(row rowScanner) (expenses.Expense, error) {
	var e expenses.Expense
	err := row.Scan(
		&e.ID,
		&e.PetID,
		&e.Category,
		&e.Description,
		&e.Amount,
		&e.Date,
		&e.Notes,
		timeCol{&e.CreatedAt},
	)
	return e, err
}
