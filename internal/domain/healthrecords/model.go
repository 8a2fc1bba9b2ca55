package healthrecords

import (
	"io"
	"time"
)

// Record es un registro de salud de una mascota. UserID es quien lo creó;
// el ownership se resuelve siempre por la mascota.
type Record struct {
	ID     int64
	PetID  int64
	UserID int64

	Type Type

	Date string // YYYY-MM-DD
	Time string // HH:MM

	Professional string
	FilePath     *string // key en el blob store

	CreatedAt time.Time
}

func (r Record) IsObservation() bool { return r.Type == TypeObservation }

// Attachment es un archivo subido junto al registro.
type Attachment struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ListFilter: cero/vacío = sin filtro. Fechas inclusivas.
type ListFilter struct {
	PetID int64
	Type  Type
	From  string
	To    string
}
