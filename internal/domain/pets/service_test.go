package pets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	next int64
	byID map[int64]Pet
}

func newTestRepo() *testRepo { return &testRepo{byID: map[int64]Pet{}} }

func (r *testRepo) Create(_ context.Context, p Pet) (Pet, error) {
	r.next++
	p.ID = r.next
	r.byID[p.ID] = p
	return p, nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, apperr.NotFound("pet not found")
	}
	return p, nil
}

func (r *testRepo) ListByOwner(_ context.Context, ownerID int64) ([]Pet, error) {
	out := []Pet{}
	for _, p := range r.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *testRepo) Update(_ context.Context, p Pet) (Pet, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return Pet{}, apperr.NotFound("pet not found")
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return apperr.NotFound("pet not found")
	}
	delete(r.byID, id)
	return nil
}

var (
	owner   = auth.Claims{UserID: 7, Type: auth.UserTypeTutor}
	someone = auth.Claims{UserID: 8, Type: auth.UserTypeTutor}
)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	return svc, repo
}

func strPtr(s string) *string { return &s }

func TestCreate_ValidatesAllFields(t *testing.T) {
	svc, _ := newTestService()
	neg := -1
	zero := 0.0

	_, err := svc.Create(context.Background(), owner.UserID, CreateInput{
		Name:    "  ",
		Species: "Dragão",
		Sex:     strPtr("Outro"),
		Age:     &neg,
		Weight:  &zero,
	})
	require.True(t, errors.Is(err, apperr.ErrValidation))

	fields := apperr.FieldsOf(err)
	for _, f := range []string{"name", "species", "sex", "age", "weight"} {
		assert.Contains(t, fields, f)
	}
}

func TestCreateGet_RoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, owner.UserID, CreateInput{
		Name:    " Rex ",
		Species: "Cachorro",
		Sex:     strPtr("Macho"),
		Breed:   strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rex", p.Name)
	assert.Nil(t, p.Breed)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.Get(ctx, owner, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	ownerID, err := svc.OwnerOf(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), ownerID)
}

func TestGet_NonOwnerDenied(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, owner.UserID, CreateInput{Name: "Mia", Species: "Gato"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, someone, p.ID)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	_, err = svc.Get(ctx, owner, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.OwnerOf(ctx, 999)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdate_PartialAndEmpty(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, owner.UserID, CreateInput{Name: "Mia", Species: "Gato", Notes: strPtr("arisca")})
	require.NoError(t, err)

	same, err := svc.Update(ctx, owner, p.ID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, p, same)

	updated, err := svc.Update(ctx, owner, p.ID, UpdateInput{
		Name:  patch.Set("Mia II"),
		Notes: patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mia II", updated.Name)
	assert.Nil(t, updated.Notes)
	assert.Equal(t, SpeciesCat, updated.Species)

	_, err = svc.Update(ctx, owner, p.ID, UpdateInput{Species: patch.Set("Peixe")})
	assert.Equal(t, map[string]string{"species": "Espécie inválida"}, apperr.FieldsOf(err))

	_, err = svc.Update(ctx, someone, p.ID, UpdateInput{Name: patch.Set("x")})
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
}

func TestDelete_RunsCleanupAfterDelete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	p, err := svc.Create(ctx, owner.UserID, CreateInput{Name: "Bob", Species: "Cavalo"})
	require.NoError(t, err)

	var calls []string
	svc.OnDelete(func(_ context.Context, petID int64) func() {
		calls = append(calls, "collect")
		return func() {
			_, stillThere := repo.byID[petID]
			assert.False(t, stillThere)
			calls = append(calls, "after")
		}
	})

	assert.True(t, errors.Is(svc.Delete(ctx, someone, p.ID), apperr.ErrAccessDenied))
	assert.Empty(t, calls)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))
	assert.Equal(t, []string{"collect", "after"}, calls)
}
