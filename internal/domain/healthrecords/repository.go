package healthrecords

import "context"

// Repository persiste registros de salud. Los listados vienen ordenados por
// data DESC, horario DESC, id DESC.
type Repository interface {
	Create(ctx context.Context, r Record) (Record, error)
	GetByID(ctx context.Context, id int64) (Record, error)
	// ListByOwner cruza con pets: solo registros de mascotas de ownerID.
	ListByOwner(ctx context.Context, ownerID int64, filter ListFilter) ([]Record, error)
	ListByPet(ctx context.Context, petID int64, filter ListFilter) ([]Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	Delete(ctx context.Context, id int64) error
}
