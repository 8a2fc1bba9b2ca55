package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/platform/validate"
	"pet-care-manager/internal/ports/auth"
)

// Authorizer es el subconjunto de access.Policy que usan las despesas.
type Authorizer interface {
	RequireTutor(caller auth.Claims) error
	AuthorizePet(ctx context.Context, caller auth.Claims, petID int64) error
}

type Service struct {
	repo  Repository
	authz Authorizer
	now   func() time.Time
}

func NewService(repo Repository, authz Authorizer) *Service {
	return &Service{
		repo:  repo,
		authz: authz,
		now:   time.Now,
	}
}

const (
	minDescription = 3
	maxDescription = 200
)

type CreateInput struct {
	PetID       int64
	Category    string
	Description string
	Amount      *decimal.Decimal
	Date        string
	Notes       *string
}

type UpdateInput struct {
	Category    patch.Field[string]
	Description patch.Field[string]
	Amount      patch.Field[decimal.Decimal]
	Date        patch.Field[string]
	Notes       patch.Field[string]
}

func (in UpdateInput) empty() bool {
	return !in.Category.Present && !in.Description.Present && !in.Amount.Present &&
		!in.Date.Present && !in.Notes.Present
}

func (s *Service) Create(ctx context.Context, caller auth.Claims, in CreateInput) (Expense, error) {
	if err := s.authz.RequireTutor(caller); err != nil {
		return Expense{}, err
	}
	if in.PetID <= 0 {
		return Expense{}, apperr.Validation(map[string]string{"petId": "Pet é obrigatório"})
	}
	if err := s.authz.AuthorizePet(ctx, caller, in.PetID); err != nil {
		return Expense{}, err
	}

	errs := validate.Errors{}
	cat := Category(validate.Clean(in.Category))
	checkCategory(errs, cat)
	desc := validate.Clean(in.Description)
	checkDescription(errs, desc)
	amount := decimal.Zero
	if in.Amount != nil {
		amount = *in.Amount
	}
	rounded := checkAmount(errs, amount)
	date := validate.Clean(in.Date)
	checkDate(errs, date)
	notes := validate.OptionalString(in.Notes)

	if err := errs.Err(); err != nil {
		return Expense{}, err
	}

	return s.repo.Create(ctx, Expense{
		PetID:       in.PetID,
		Category:    cat,
		Description: desc,
		Amount:      rounded,
		Date:        date,
		Notes:       notes,
		CreatedAt:   s.now().UTC(),
	})
}

func (s *Service) Get(ctx context.Context, caller auth.Claims, id int64) (Expense, error) {
	if err := s.authz.RequireTutor(caller); err != nil {
		return Expense{}, err
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if err := s.authz.AuthorizePet(ctx, caller, e.PetID); err != nil {
		return Expense{}, err
	}
	return e, nil
}

// List devuelve las despesas de todas las mascotas del caller. Si el filtro
// trae petId, primero se autoriza esa mascota.
func (s *Service) List(ctx context.Context, caller auth.Claims, filter ListFilter) ([]Expense, error) {
	if err := s.authz.RequireTutor(caller); err != nil {
		return nil, err
	}
	filter, err := s.checkFilter(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, caller.UserID, filter)
}

// Summary totaliza las despesas del caller con los mismos filtros que List.
func (s *Service) Summary(ctx context.Context, caller auth.Claims, filter ListFilter) (Summary, error) {
	items, err := s.List(ctx, caller, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(items), nil
}

// Update valida solo los campos presentes; sin campos devuelve la despesa tal cual.
func (s *Service) Update(ctx context.Context, caller auth.Claims, id int64, in UpdateInput) (Expense, error) {
	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return Expense{}, err
	}
	if in.empty() {
		return current, nil
	}

	errs := validate.Errors{}
	next := current

	if in.Category.Present {
		next.Category = Category(validate.Clean(in.Category.Value))
		checkCategory(errs, next.Category)
	}
	if in.Description.Present {
		next.Description = validate.Clean(in.Description.Value)
		checkDescription(errs, next.Description)
	}
	if in.Amount.Present {
		next.Amount = checkAmount(errs, in.Amount.Value)
	}
	if in.Date.Present {
		next.Date = validate.Clean(in.Date.Value)
		checkDate(errs, next.Date)
	}
	if in.Notes.Present {
		next.Notes = validate.OptionalString(in.Notes.Ptr())
	}

	if err := errs.Err(); err != nil {
		return Expense{}, err
	}
	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, caller auth.Claims, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	return nil
}

func (s *Service) checkFilter(ctx context.Context, caller auth.Claims, f ListFilter) (ListFilter, error) {
	errs := validate.Errors{}
	f.From = validate.Clean(f.From)
	f.To = validate.Clean(f.To)
	if f.From != "" && !validate.IsDate(f.From) {
		errs.Add("dataInicio", "Data inválida (use YYYY-MM-DD)")
	}
	if f.To != "" && !validate.IsDate(f.To) {
		errs.Add("dataFim", "Data inválida (use YYYY-MM-DD)")
	}
	if f.Category != "" {
		f.Category = Category(validate.Clean(string(f.Category)))
		checkCategory(errs, f.Category)
	}
	if err := errs.Err(); err != nil {
		return ListFilter{}, err
	}

	if f.PetID > 0 {
		if err := s.authz.AuthorizePet(ctx, caller, f.PetID); err != nil {
			return ListFilter{}, err
		}
	}
	return f, nil
}

func checkCategory(errs validate.Errors, c Category) {
	if !validate.OneOf(c, AllCategories) {
		errs.Add("categoria", "Categoria inválida")
	}
}

func checkDescription(errs validate.Errors, d string) {
	n := validate.Len(d)
	switch {
	case n < minDescription:
		errs.Add("descricao", "Descrição deve ter pelo menos 3 caracteres")
	case n > maxDescription:
		errs.Add("descricao", "Descrição deve ter no máximo 200 caracteres")
	}
}

// checkAmount valida el valor crudo y devuelve el valor redondeado a 2 decimales
// (half-up). Un valor positivo que redondea a 0 también es inválido.
func checkAmount(errs validate.Errors, v decimal.Decimal) decimal.Decimal {
	rounded := v.Round(2)
	switch {
	case !v.IsPositive():
		errs.Add("valor", "Valor deve ser maior que zero")
	case v.GreaterThan(MaxAmount):
		errs.Add("valor", "Valor muito alto")
	case !rounded.IsPositive():
		errs.Add("valor", "Valor deve ser maior que zero")
	}
	return rounded
}

func checkDate(errs validate.Errors, d string) {
	if !validate.IsDate(d) {
		errs.Add("data", "Data inválida (use YYYY-MM-DD)")
	}
}
