// Package access concentra la política de autorización: ownership de la
// mascota + tipo de usuario. Todos los módulos (agenda, despesas, registros,
// relatórios) pasan por acá una sola vez por caso de uso.
package access

import (
	"context"
	"errors"
	"fmt"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/ports/auth"
)

// OwnerLookup resuelve pet -> owner. Lo implementa pets.Service; se define
// acá para evitar ciclos de imports.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, petID int64) (int64, error)
}

// DenialRecorder es opcional (métricas).
type DenialRecorder interface {
	ObserveDenial(reason string)
}

// DeletionRule define quién puede borrar un registro de salud.
type DeletionRule string

const (
	// DeletionStrict: ownership primero; luego solo un Tutor que sea el
	// creador y solo registros de tipo Observação.
	DeletionStrict DeletionRule = "strict"
	// DeletionPermissive: un Veterinário borra cualquier registro; un Tutor
	// cualquier registro de sus mascotas.
	DeletionPermissive DeletionRule = "permissive"
)

func ParseDeletionRule(s string) (DeletionRule, error) {
	switch DeletionRule(s) {
	case "", DeletionStrict:
		return DeletionStrict, nil
	case DeletionPermissive:
		return DeletionPermissive, nil
	default:
		return "", fmt.Errorf("unknown deletion rule %q", s)
	}
}

// Motivos de denegación (label de métricas).
const (
	ReasonPetNotFound  = "pet_not_found"
	ReasonNotOwner     = "not_owner"
	ReasonNotTutor     = "not_tutor"
	ReasonDeletionRule = "deletion_rule"
)

type Policy struct {
	owners   OwnerLookup
	rule     DeletionRule
	recorder DenialRecorder
}

type Option func(*Policy)

func WithDeletionRule(rule DeletionRule) Option {
	return func(p *Policy) {
		if rule != "" {
			p.rule = rule
		}
	}
}

func WithDenialRecorder(rec DenialRecorder) Option {
	return func(p *Policy) { p.recorder = rec }
}

func NewPolicy(owners OwnerLookup, opts ...Option) *Policy {
	p := &Policy{owners: owners, rule: DeletionStrict}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Policy) Rule() DeletionRule { return p.rule }

// AuthorizePet: NotFound si la mascota no existe, AccessDenied si el caller no es el dueño.
func (p *Policy) AuthorizePet(ctx context.Context, caller auth.Claims, petID int64) error {
	owner, err := p.owners.OwnerOf(ctx, petID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			p.deny(ReasonPetNotFound)
			return apperr.NotFound("pet not found")
		}
		return fmt.Errorf("resolve pet owner: %w", err)
	}
	if owner != caller.UserID {
		p.deny(ReasonNotOwner)
		return apperr.AccessDenied("access denied")
	}
	return nil
}

// RequireTutor es el gate de borde de despesas y relatórios; corre antes
// de resolver ownership.
func (p *Policy) RequireTutor(caller auth.Claims) error {
	if caller.Type != auth.UserTypeTutor {
		p.deny(ReasonNotTutor)
		return apperr.AccessDenied("only tutors can access this resource")
	}
	return nil
}

// RecordFacts son los datos del registro que importan para borrarlo.
type RecordFacts struct {
	PetID         int64
	CreatorID     int64
	IsObservation bool
}

func (p *Policy) AuthorizeRecordDeletion(ctx context.Context, caller auth.Claims, rec RecordFacts) error {
	switch p.rule {
	case DeletionPermissive:
		switch caller.Type {
		case auth.UserTypeVeterinario:
			return nil
		case auth.UserTypeTutor:
			return p.AuthorizePet(ctx, caller, rec.PetID)
		default:
			p.deny(ReasonDeletionRule)
			return apperr.DeletionNotAllowed("user type cannot delete health records")
		}
	default:
		if err := p.AuthorizePet(ctx, caller, rec.PetID); err != nil {
			return err
		}
		if caller.Type != auth.UserTypeTutor || caller.UserID != rec.CreatorID || !rec.IsObservation {
			p.deny(ReasonDeletionRule)
			return apperr.DeletionNotAllowed("Somente o tutor pode remover registros de Observação que ele próprio criou.")
		}
		return nil
	}
}

func (p *Policy) deny(reason string) {
	if p.recorder != nil {
		p.recorder.ObserveDenial(reason)
	}
}
