package agenda

import "time"

// Procedure es el tipo de procedimiento agendado.
// @Enum Banho/Tosa, Vacina, Vermifugo, Antipulgas, Consulta, Outros
type Procedure string

const (
	ProcedureGrooming    Procedure = "Banho/Tosa"
	ProcedureVaccine     Procedure = "Vacina"
	ProcedureDeworming   Procedure = "Vermifugo"
	ProcedureFleaControl Procedure = "Antipulgas"
	ProcedureCheckup     Procedure = "Consulta"
	ProcedureOther       Procedure = "Outros"
)

var AllProcedures = []Procedure{
	ProcedureGrooming,
	ProcedureVaccine,
	ProcedureDeworming,
	ProcedureFleaControl,
	ProcedureCheckup,
	ProcedureOther,
}

// Appointment es un turno agendado para una mascota.
// Rating* queda en nil hasta que el dueño lo evalúa (una sola vez).
type Appointment struct {
	ID    int64
	PetID int64

	Procedure Procedure
	Date      string // YYYY-MM-DD
	Time      string // HH:MM

	Professional *string
	Notes        *string

	RatingScore   *int
	RatingComment *string

	CreatedAt time.Time
}

func (a Appointment) Rated() bool { return a.RatingScore != nil }

// ListFilter: strings vacíos = sin filtro. Fechas inclusivas.
type ListFilter struct {
	From      string
	To        string
	Procedure Procedure
}
