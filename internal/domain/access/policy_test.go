package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/ports/auth"
)

type fakeOwners map[int64]int64

func (f fakeOwners) OwnerOf(_ context.Context, petID int64) (int64, error) {
	owner, ok := f[petID]
	if !ok {
		return 0, apperr.NotFound("pet not found")
	}
	return owner, nil
}

type failingOwners struct{}

func (failingOwners) OwnerOf(context.Context, int64) (int64, error) {
	return 0, errors.New("db down")
}

type countingRecorder map[string]int

func (c countingRecorder) ObserveDenial(reason string) { c[reason]++ }

var (
	tutor7  = auth.Claims{UserID: 7, Type: auth.UserTypeTutor}
	tutor8  = auth.Claims{UserID: 8, Type: auth.UserTypeTutor}
	vet9    = auth.Claims{UserID: 9, Type: auth.UserTypeVeterinario}
	unknown = auth.Claims{UserID: 10, Type: "Admin"}
)

func TestAuthorizePet(t *testing.T) {
	rec := countingRecorder{}
	p := NewPolicy(fakeOwners{3: 7}, WithDenialRecorder(rec))
	ctx := context.Background()

	require.NoError(t, p.AuthorizePet(ctx, tutor7, 3))

	err := p.AuthorizePet(ctx, tutor8, 3)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	err = p.AuthorizePet(ctx, tutor7, 99)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	assert.Equal(t, 1, rec[ReasonNotOwner])
	assert.Equal(t, 1, rec[ReasonPetNotFound])
}

func TestAuthorizePet_InfraErrorIsNotADenial(t *testing.T) {
	p := NewPolicy(failingOwners{})
	err := p.AuthorizePet(context.Background(), tutor7, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestRequireTutor(t *testing.T) {
	p := NewPolicy(fakeOwners{})
	assert.NoError(t, p.RequireTutor(tutor7))
	assert.True(t, errors.Is(p.RequireTutor(vet9), apperr.ErrAccessDenied))
	assert.True(t, errors.Is(p.RequireTutor(unknown), apperr.ErrAccessDenied))
}

func TestAuthorizeRecordDeletion_Strict(t *testing.T) {
	owners := fakeOwners{3: 7}
	p := NewPolicy(owners)
	ctx := context.Background()
	require.Equal(t, DeletionStrict, p.Rule())

	cases := []struct {
		name   string
		caller auth.Claims
		facts  RecordFacts
		want   error
	}{
		{"tutor creator observation", tutor7, RecordFacts{PetID: 3, CreatorID: 7, IsObservation: true}, nil},
		{"tutor non creator exam", tutor7, RecordFacts{PetID: 3, CreatorID: 9, IsObservation: false}, apperr.ErrDeletionNotAllowed},
		{"tutor creator exam", tutor7, RecordFacts{PetID: 3, CreatorID: 7, IsObservation: false}, apperr.ErrDeletionNotAllowed},
		{"tutor non creator observation", tutor7, RecordFacts{PetID: 3, CreatorID: 9, IsObservation: true}, apperr.ErrDeletionNotAllowed},
		{"not owner", tutor8, RecordFacts{PetID: 3, CreatorID: 8, IsObservation: true}, apperr.ErrAccessDenied},
		{"vet not owner", vet9, RecordFacts{PetID: 3, CreatorID: 9, IsObservation: true}, apperr.ErrAccessDenied},
		{"missing pet", tutor7, RecordFacts{PetID: 42, CreatorID: 7, IsObservation: true}, apperr.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.AuthorizeRecordDeletion(ctx, tc.caller, tc.facts)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestAuthorizeRecordDeletion_Permissive(t *testing.T) {
	p := NewPolicy(fakeOwners{3: 7}, WithDeletionRule(DeletionPermissive))
	ctx := context.Background()

	// El veterinario no necesita ser dueño.
	assert.NoError(t, p.AuthorizeRecordDeletion(ctx, vet9, RecordFacts{PetID: 3, CreatorID: 7}))
	assert.NoError(t, p.AuthorizeRecordDeletion(ctx, tutor7, RecordFacts{PetID: 3, CreatorID: 9}))
	assert.True(t, errors.Is(p.AuthorizeRecordDeletion(ctx, tutor8, RecordFacts{PetID: 3}), apperr.ErrAccessDenied))
	assert.True(t, errors.Is(p.AuthorizeRecordDeletion(ctx, unknown, RecordFacts{PetID: 3}), apperr.ErrDeletionNotAllowed))
}

func TestParseDeletionRule(t *testing.T) {
	r, err := ParseDeletionRule("")
	require.NoError(t, err)
	assert.Equal(t, DeletionStrict, r)

	r, err = ParseDeletionRule("permissive")
	require.NoError(t, err)
	assert.Equal(t, DeletionPermissive, r)

	_, err = ParseDeletionRule("lenient")
	assert.Error(t, err)
}
