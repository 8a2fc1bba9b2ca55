package expenses

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category es la categoría de una despesa.
// @Enum Alimentação, Saúde, Higiene, Acessórios, Hospedagem, Transporte, Outros
type Category string

const (
	CategoryFood      Category = "Alimentação"
	CategoryHealth    Category = "Saúde"
	CategoryHygiene   Category = "Higiene"
	CategoryGear      Category = "Acessórios"
	CategoryBoarding  Category = "Hospedagem"
	CategoryTransport Category = "Transporte"
	CategoryOther     Category = "Outros"
)

var AllCategories = []Category{
	CategoryFood,
	CategoryHealth,
	CategoryHygiene,
	CategoryGear,
	CategoryBoarding,
	CategoryTransport,
	CategoryOther,
}

// MaxAmount es el tope de valor aceptado (inclusive).
var MaxAmount = decimal.RequireFromString("999999.99")

// Expense es un gasto asociado a una mascota. Amount siempre > 0 con 2 decimales.
type Expense struct {
	ID    int64
	PetID int64

	Category    Category
	Description string
	Amount      decimal.Decimal
	Date        string // YYYY-MM-DD
	Notes       *string

	CreatedAt time.Time
}

// ListFilter: cero/vacío = sin filtro. Fechas inclusivas.
type ListFilter struct {
	PetID    int64
	Category Category
	From     string
	To       string
}

// Summary totaliza por categoría; siempre trae las 7 categorías.
type Summary struct {
	Total      decimal.Decimal
	ByCategory map[Category]decimal.Decimal
}

// Summarize agrega una lista de despesas.
func Summarize(items []Expense) Summary {
	s := Summary{
		Total:      decimal.Zero,
		ByCategory: make(map[Category]decimal.Decimal, len(AllCategories)),
	}
	for _, c := range AllCategories {
		s.ByCategory[c] = decimal.Zero
	}
	for _, e := range items {
		s.Total = s.Total.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
	}
	s.Total = s.Total.Round(2)
	for c, v := range s.ByCategory {
		s.ByCategory[c] = v.Round(2)
	}
	return s
}
