package pets

import (
	"context"
	"fmt"
	"time"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/platform/validate"
	"pet-care-manager/internal/ports/auth"
)

// CleanupFunc se llama antes de borrar una mascota y devuelve lo que hay que
// correr después del borrado (p.ej. borrar adjuntos del blob store).
type CleanupFunc func(ctx context.Context, petID int64) func()

type Service struct {
	repo    Repository
	cleanup []CleanupFunc
	now     func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// OnDelete registra un cleanup para el borrado en cascada.
func (s *Service) OnDelete(fn CleanupFunc) {
	s.cleanup = append(s.cleanup, fn)
}

type CreateInput struct {
	Name    string
	Species string
	Breed   *string
	Sex     *string
	Age     *int
	Weight  *float64
	Height  *float64
	Notes   *string
}

type UpdateInput struct {
	Name    patch.Field[string]
	Species patch.Field[string]
	Breed   patch.Field[string]
	Sex     patch.Field[string]
	Age     patch.Field[int]
	Weight  patch.Field[float64]
	Height  patch.Field[float64]
	Notes   patch.Field[string]
}

func (in UpdateInput) empty() bool {
	return !in.Name.Present && !in.Species.Present && !in.Breed.Present && !in.Sex.Present &&
		!in.Age.Present && !in.Weight.Present && !in.Height.Present && !in.Notes.Present
}

func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (Pet, error) {
	if ownerID <= 0 {
		return Pet{}, apperr.Unauthorized("unauthorized")
	}

	errs := validate.Errors{}
	name := validate.Clean(in.Name)
	checkName(errs, name)
	species := Species(validate.Clean(in.Species))
	checkSpecies(errs, species)

	var sex *Sex
	if v := validate.OptionalString(in.Sex); v != nil {
		sx := Sex(*v)
		checkSex(errs, sx)
		sex = &sx
	}
	checkMeasures(errs, in.Age, in.Weight, in.Height)

	breed := validate.OptionalString(in.Breed)
	if breed != nil && validate.Len(*breed) > 100 {
		errs.Add("breed", "Raça deve ter no máximo 100 caracteres")
	}
	notes := validate.OptionalString(in.Notes)
	if notes != nil && validate.Len(*notes) > 500 {
		errs.Add("notes", "Observações deve ter no máximo 500 caracteres")
	}

	if err := errs.Err(); err != nil {
		return Pet{}, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Pet{
		OwnerID:   ownerID,
		Name:      name,
		Species:   species,
		Breed:     breed,
		Sex:       sex,
		Age:       in.Age,
		Weight:    in.Weight,
		Height:    in.Height,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Get devuelve la mascota solo si el caller es el dueño.
func (s *Service) Get(ctx context.Context, caller auth.Claims, id int64) (Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerID != caller.UserID {
		return Pet{}, apperr.AccessDenied("access denied")
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// OwnerOf es el índice de ownership: pet -> owner, o NotFound.
func (s *Service) OwnerOf(ctx context.Context, petID int64) (int64, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return 0, err
	}
	return p.OwnerID, nil
}

// Update aplica solo los campos presentes. Sin campos devuelve la mascota sin tocarla.
func (s *Service) Update(ctx context.Context, caller auth.Claims, id int64, in UpdateInput) (Pet, error) {
	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return Pet{}, err
	}
	if in.empty() {
		return current, nil
	}

	errs := validate.Errors{}
	next := current

	if in.Name.Present {
		name := ""
		if !in.Name.Null {
			name = validate.Clean(in.Name.Value)
		}
		checkName(errs, name)
		next.Name = name
	}
	if in.Species.Present {
		sp := Species("")
		if !in.Species.Null {
			sp = Species(validate.Clean(in.Species.Value))
		}
		checkSpecies(errs, sp)
		next.Species = sp
	}
	if in.Breed.Present {
		next.Breed = validate.OptionalString(in.Breed.Ptr())
		if next.Breed != nil && validate.Len(*next.Breed) > 100 {
			errs.Add("breed", "Raça deve ter no máximo 100 caracteres")
		}
	}
	if in.Sex.Present {
		next.Sex = nil
		if v := validate.OptionalString(in.Sex.Ptr()); v != nil {
			sx := Sex(*v)
			checkSex(errs, sx)
			next.Sex = &sx
		}
	}
	if in.Age.Present {
		next.Age = in.Age.Ptr()
	}
	if in.Weight.Present {
		next.Weight = in.Weight.Ptr()
	}
	if in.Height.Present {
		next.Height = in.Height.Ptr()
	}
	checkMeasures(errs, next.Age, next.Weight, next.Height)
	if in.Notes.Present {
		next.Notes = validate.OptionalString(in.Notes.Ptr())
		if next.Notes != nil && validate.Len(*next.Notes) > 500 {
			errs.Add("notes", "Observações deve ter no máximo 500 caracteres")
		}
	}

	if err := errs.Err(); err != nil {
		return Pet{}, err
	}

	next.UpdatedAt = s.now().UTC()
	return s.repo.Update(ctx, next)
}

// Delete borra la mascota y, en cascada, todo lo que cuelga de ella.
func (s *Service) Delete(ctx context.Context, caller auth.Claims, id int64) error {
	if _, err := s.Get(ctx, caller, id); err != nil {
		return err
	}

	after := make([]func(), 0, len(s.cleanup))
	for _, fn := range s.cleanup {
		if f := fn(ctx, id); f != nil {
			after = append(after, f)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pet %d: %w", id, err)
	}
	for _, f := range after {
		f()
	}
	return nil
}

func checkName(errs validate.Errors, name string) {
	if name == "" {
		errs.Add("name", "Nome é obrigatório")
		return
	}
	if validate.Len(name) > 100 {
		errs.Add("name", "Nome deve ter no máximo 100 caracteres")
	}
}

func checkSpecies(errs validate.Errors, sp Species) {
	if !validate.OneOf(sp, AllSpecies) {
		errs.Add("species", "Espécie inválida")
	}
}

func checkSex(errs validate.Errors, sx Sex) {
	if !validate.OneOf(sx, AllSexes) {
		errs.Add("sex", "Sexo inválido")
	}
}

func checkMeasures(errs validate.Errors, age *int, weight, height *float64) {
	if age != nil && *age < 0 {
		errs.Add("age", "Idade não pode ser negativa")
	}
	if weight != nil && *weight <= 0 {
		errs.Add("weight", "Peso deve ser maior que zero")
	}
	if height != nil && *height <= 0 {
		errs.Add("height", "Altura deve ser maior que zero")
	}
}
