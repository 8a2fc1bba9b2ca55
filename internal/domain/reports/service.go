// Package reports arma los relatórios de salud y financiero a partir de los
// otros módulos. No persiste nada propio.
package reports

import (
	"context"
	"time"

	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/platform/validate"
	"pet-care-manager/internal/ports/auth"
)

type Authorizer interface {
	RequireTutor(caller auth.Claims) error
	AuthorizePet(ctx context.Context, caller auth.Claims, petID int64) error
}

type PetReader interface {
	Get(ctx context.Context, caller auth.Claims, id int64) (pets.Pet, error)
}

type RecordReader interface {
	ListByPet(ctx context.Context, petID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error)
}

type ExpenseReader interface {
	List(ctx context.Context, caller auth.Claims, filter expenses.ListFilter) ([]expenses.Expense, error)
}

// Period: vacío = sin límite. Fechas inclusivas.
type Period struct {
	From string
	To   string
}

type HealthReport struct {
	Pet         pets.Pet
	Period      Period
	Records     []healthrecords.Record
	ByType      map[healthrecords.Type]int
	GeneratedAt time.Time
}

type FinancialReport struct {
	Period      Period
	Expenses    []expenses.Expense
	Summary     expenses.Summary
	GeneratedAt time.Time
}

type Service struct {
	authz    Authorizer
	pets     PetReader
	records  RecordReader
	expenses ExpenseReader

	now func() time.Time
}

func NewService(authz Authorizer, pets PetReader, records RecordReader, expenses ExpenseReader) *Service {
	return &Service{
		authz:    authz,
		pets:     pets,
		records:  records,
		expenses: expenses,
		now:      time.Now,
	}
}

// Health: Tutor + dueño de la mascota. Registros del más reciente al más viejo.
func (s *Service) Health(ctx context.Context, caller auth.Claims, petID int64, period Period) (HealthReport, error) {
	if err := s.authz.RequireTutor(caller); err != nil {
		return HealthReport{}, err
	}
	period, err := checkPeriod(period)
	if err != nil {
		return HealthReport{}, err
	}
	if err := s.authz.AuthorizePet(ctx, caller, petID); err != nil {
		return HealthReport{}, err
	}

	pet, err := s.pets.Get(ctx, caller, petID)
	if err != nil {
		return HealthReport{}, err
	}
	recs, err := s.records.ListByPet(ctx, petID, healthrecords.ListFilter{From: period.From, To: period.To})
	if err != nil {
		return HealthReport{}, err
	}

	byType := map[healthrecords.Type]int{}
	for _, r := range recs {
		byType[r.Type]++
	}
	return HealthReport{
		Pet:         pet,
		Period:      period,
		Records:     recs,
		ByType:      byType,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// Financial cubre todas las mascotas del Tutor; petID > 0 restringe a una.
func (s *Service) Financial(ctx context.Context, caller auth.Claims, petID int64, period Period) (FinancialReport, error) {
	if err := s.authz.RequireTutor(caller); err != nil {
		return FinancialReport{}, err
	}
	period, err := checkPeriod(period)
	if err != nil {
		return FinancialReport{}, err
	}

	items, err := s.expenses.List(ctx, caller, expenses.ListFilter{PetID: petID, From: period.From, To: period.To})
	if err != nil {
		return FinancialReport{}, err
	}
	return FinancialReport{
		Period:      period,
		Expenses:    items,
		Summary:     expenses.Summarize(items),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func checkPeriod(p Period) (Period, error) {
	p.From = validate.Clean(p.From)
	p.To = validate.Clean(p.To)

	errs := validate.Errors{}
	if p.From != "" && !validate.IsDate(p.From) {
		errs.Add("dataInicio", "Data inválida (use YYYY-MM-DD)")
	}
	if p.To != "" && !validate.IsDate(p.To) {
		errs.Add("dataFim", "Data inválida (use YYYY-MM-DD)")
	}
	if len(errs) == 0 && p.From != "" && p.To != "" && p.From > p.To {
		errs.Add("dataFim", "Data final deve ser posterior à data inicial")
	}
	return p, errs.Err()
}
