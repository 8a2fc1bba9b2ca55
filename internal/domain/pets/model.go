package pets

import "time"

// Species define las especies soportadas.
// @Enum Cachorro, Cavalo, Gato, Outros
type Species string

const (
	SpeciesDog   Species = "Cachorro"
	SpeciesHorse Species = "Cavalo"
	SpeciesCat   Species = "Gato"
	SpeciesOther Species = "Outros"
)

var AllSpecies = []Species{SpeciesDog, SpeciesHorse, SpeciesCat, SpeciesOther}

// Sex define el sexo de la mascota.
// @Enum Macho, Fêmea, Irrelevante
type Sex string

const (
	SexMale       Sex = "Macho"
	SexFemale     Sex = "Fêmea"
	SexIrrelevant Sex = "Irrelevante"
)

var AllSexes = []Sex{SexMale, SexFemale, SexIrrelevant}

// Pet representa el perfil básico de una mascota. El dueño es la única
// fuente de ownership para agenda, despesas y registros de salud.
type Pet struct {
	ID      int64
	OwnerID int64

	Name    string
	Species Species
	Breed   *string
	Sex     *Sex

	Age    *int     // años
	Weight *float64 // kg
	Height *float64 // cm

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
