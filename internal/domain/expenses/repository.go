package expenses

import "context"

// Repository persiste despesas. ListByOwner cruza con pets (solo mascotas
// de ownerID) y ordena por data DESC, id DESC.
type Repository interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	GetByID(ctx context.Context, id int64) (Expense, error)
	ListByOwner(ctx context.Context, ownerID int64, filter ListFilter) ([]Expense, error)
	Update(ctx context.Context, e Expense) (Expense, error)
	Delete(ctx context.Context, id int64) error
}
