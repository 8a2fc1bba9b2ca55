package pets

import "context"

// Repository persiste mascotas. GetByID devuelve apperr NotFound si no existe.
// Delete borra en cascada agenda, despesas y registros de salud.
type Repository interface {
	Create(ctx context.Context, p Pet) (Pet, error)
	GetByID(ctx context.Context, id int64) (Pet, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Pet, error)
	Update(ctx context.Context, p Pet) (Pet, error)
	Delete(ctx context.Context, id int64) error
}
