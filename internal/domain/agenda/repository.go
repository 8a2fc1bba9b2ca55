package agenda

import "context"

// Repository persiste turnos. Los listados vienen ordenados por
// data DESC, horario DESC, id DESC.
type Repository interface {
	Create(ctx context.Context, a Appointment) (Appointment, error)
	GetByID(ctx context.Context, id int64) (Appointment, error)
	ListByPet(ctx context.Context, petID int64, filter ListFilter) ([]Appointment, error)
	Update(ctx context.Context, a Appointment) (Appointment, error)
	Delete(ctx context.Context, id int64) error
}
