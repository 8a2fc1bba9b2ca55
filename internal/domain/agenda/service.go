package agenda

import (
	"context"
	"fmt"
	"time"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/platform/validate"
	"pet-care-manager/internal/ports/auth"
)

// Authorizer es el subconjunto de access.Policy que usa la agenda.
type Authorizer interface {
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
	maxProfessional = 100
	maxNotes        = 300
)

type CreateInput struct {
	PetID        int64
	Procedure    string
	Date         string
	Time         string
	Professional *string
	Notes        *string
}

type UpdateInput struct {
	Procedure    patch.Field[string]
	Date         patch.Field[string]
	Time         patch.Field[string]
	Professional patch.Field[string]
	Notes        patch.Field[string]
}

func (in UpdateInput) empty() bool {
	return !in.Procedure.Present && !in.Date.Present && !in.Time.Present &&
		!in.Professional.Present && !in.Notes.Present
}

type RateInput struct {
	Score   int
	Comment *string
}

func (s *Service) Create(ctx context.Context, caller auth.Claims, in CreateInput) (Appointment, error) {
	if in.PetID <= 0 {
		return Appointment{}, apperr.Validation(map[string]string{"petId": "Pet é obrigatório"})
	}
	if err := s.authz.AuthorizePet(ctx, caller, in.PetID); err != nil {
		return Appointment{}, err
	}

	errs := validate.Errors{}
	proc := Procedure(validate.Clean(in.Procedure))
	if validate.Len(string(proc)) < 3 {
		errs.Add("procedimento", "Procedimento é obrigatório (mín. 3 caracteres)")
	} else if !validate.OneOf(proc, AllProcedures) {
		errs.Add("procedimento", "Procedimento inválido")
	}
	date := validate.Clean(in.Date)
	checkDate(errs, date)
	clock := validate.Clean(in.Time)
	checkTime(errs, clock)
	professional := validate.OptionalString(in.Professional)
	checkMax(errs, "profissional", professional, maxProfessional, "Profissional deve ter no máximo 100 caracteres")
	notes := validate.OptionalString(in.Notes)
	checkMax(errs, "observacoes", notes, maxNotes, "Observações deve ter no máximo 300 caracteres")

	if err := errs.Err(); err != nil {
		return Appointment{}, err
	}

	return s.repo.Create(ctx, Appointment{
		PetID:        in.PetID,
		Procedure:    proc,
		Date:         date,
		Time:         clock,
		Professional: professional,
		Notes:        notes,
		CreatedAt:    s.now().UTC(),
	})
}

// Get resuelve el turno y autoriza contra la mascota a la que pertenece.
func (s *Service) Get(ctx context.Context, caller auth.Claims, id int64) (Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Appointment{}, err
	}
	if err := s.authz.AuthorizePet(ctx, caller, a.PetID); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

func (s *Service) ListByPet(ctx context.Context, caller auth.Claims, petID int64, filter ListFilter) ([]Appointment, error) {
	if err := s.authz.AuthorizePet(ctx, caller, petID); err != nil {
		return nil, err
	}

	errs := validate.Errors{}
	filter.From = validate.Clean(filter.From)
	filter.To = validate.Clean(filter.To)
	if filter.From != "" && !validate.IsDate(filter.From) {
		errs.Add("dataInicio", "Data inválida (use YYYY-MM-DD)")
	}
	if filter.To != "" && !validate.IsDate(filter.To) {
		errs.Add("dataFim", "Data inválida (use YYYY-MM-DD)")
	}
	if filter.Procedure != "" {
		filter.Procedure = Procedure(validate.Clean(string(filter.Procedure)))
		if !validate.OneOf(filter.Procedure, AllProcedures) {
			errs.Add("procedimento", "Procedimento inválido")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	return s.repo.ListByPet(ctx, petID, filter)
}

// Update valida solo los campos presentes; sin campos devuelve el turno tal cual.
func (s *Service) Update(ctx context.Context, caller auth.Claims, id int64, in UpdateInput) (Appointment, error) {
	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return Appointment{}, err
	}
	if in.empty() {
		return current, nil
	}

	errs := validate.Errors{}
	next := current

	if in.Procedure.Present {
		proc := Procedure(validate.Clean(in.Procedure.Value))
		if in.Procedure.Null || validate.Len(string(proc)) < 3 {
			errs.Add("procedimento", "Procedimento deve ter no mínimo 3 caracteres")
		} else if !validate.OneOf(proc, AllProcedures) {
			errs.Add("procedimento", "Procedimento inválido")
		}
		next.Procedure = proc
	}
	if in.Date.Present {
		next.Date = validate.Clean(in.Date.Value)
		checkDate(errs, next.Date)
	}
	if in.Time.Present {
		next.Time = validate.Clean(in.Time.Value)
		checkTime(errs, next.Time)
	}
	if in.Professional.Present {
		next.Professional = validate.OptionalString(in.Professional.Ptr())
		checkMax(errs, "profissional", next.Professional, maxProfessional, "Profissional deve ter no máximo 100 caracteres")
	}
	if in.Notes.Present {
		next.Notes = validate.OptionalString(in.Notes.Ptr())
		checkMax(errs, "observacoes", next.Notes, maxNotes, "Observações deve ter no máximo 300 caracteres")
	}

	if err := errs.Err(); err != nil {
		return Appointment{}, err
	}
	return s.repo.Update(ctx, next)
}

func (s *Service) Delete(ctx context.Context, caller auth.Claims, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}
	return nil
}

// Rate evalúa un turno. La nota se valida antes de buscar el turno;
// un turno ya evaluado devuelve Conflict.
func (s *Service) Rate(ctx context.Context, caller auth.Claims, id int64, in RateInput) (Appointment, error) {
	errs := validate.Errors{}
	if in.Score < 1 || in.Score > 5 {
		errs.Add("nota", "A nota deve ser entre 1 e 5")
	}
	if err := errs.Err(); err != nil {
		return Appointment{}, err
	}
	comment := validate.OptionalString(in.Comment)

	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return Appointment{}, err
	}
	if current.Rated() {
		return Appointment{}, apperr.Conflict("appointment already rated")
	}

	score := in.Score
	current.RatingScore = &score
	current.RatingComment = comment
	return s.repo.Update(ctx, current)
}

func checkDate(errs validate.Errors, date string) {
	switch {
	case date == "":
		errs.Add("data", "Data é obrigatória")
	case !validate.IsDate(date):
		errs.Add("data", "Data inválida (use YYYY-MM-DD)")
	}
}

func checkTime(errs validate.Errors, clock string) {
	switch {
	case clock == "":
		errs.Add("horario", "Horário é obrigatório")
	case !validate.IsClock(clock):
		errs.Add("horario", "Horário inválido (use HH:MM)")
	}
}

func checkMax(errs validate.Errors, field string, v *string, max int, msg string) {
	if v != nil && validate.Len(*v) > max {
		errs.Add(field, msg)
	}
}
