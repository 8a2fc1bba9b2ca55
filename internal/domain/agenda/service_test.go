package agenda

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/ports/auth"
)

type ownerAuthz map[int64]int64

func (o ownerAuthz) AuthorizePet(_ context.Context, caller auth.Claims, petID int64) error {
	owner, ok := o[petID]
	if !ok {
		return apperr.NotFound("pet not found")
	}
	if owner != caller.UserID {
		return apperr.AccessDenied("access denied")
	}
	return nil
}

type testRepo struct {
	next int64
	byID map[int64]Appointment
}

func newTestRepo() *testRepo { return &testRepo{byID: map[int64]Appointment{}} }

func (r *testRepo) Create(_ context.Context, a Appointment) (Appointment, error) {
	r.next++
	a.ID = r.next
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) GetByID(_ context.Context, id int64) (Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return Appointment{}, apperr.NotFound("appointment not found")
	}
	return a, nil
}

func (r *testRepo) ListByPet(_ context.Context, petID int64, f ListFilter) ([]Appointment, error) {
	out := []Appointment{}
	for _, a := range r.byID {
		if a.PetID != petID {
			continue
		}
		if f.From != "" && a.Date < f.From || f.To != "" && a.Date > f.To {
			continue
		}
		if f.Procedure != "" && a.Procedure != f.Procedure {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *testRepo) Update(_ context.Context, a Appointment) (Appointment, error) {
	if _, ok := r.byID[a.ID]; !ok {
		return Appointment{}, apperr.NotFound("appointment not found")
	}
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

var (
	owner    = auth.Claims{UserID: 7, Type: auth.UserTypeTutor}
	stranger = auth.Claims{UserID: 8, Type: auth.UserTypeTutor}
)

func newTestService() *Service {
	svc := NewService(newTestRepo(), ownerAuthz{1: 7})
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func strPtr(s string) *string { return &s }

func validInput() CreateInput {
	return CreateInput{
		PetID:        1,
		Procedure:    "Vacina",
		Date:         "2025-05-10",
		Time:         "09:30",
		Professional: strPtr("Dra. Ana"),
	}
}

func TestCreateGet_RoundTrip(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
	assert.Equal(t, ProcedureVaccine, a.Procedure)
	assert.Nil(t, a.Notes)
	assert.Nil(t, a.RatingScore)
	assert.Nil(t, a.RatingComment)
	assert.Equal(t, time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC), a.CreatedAt)

	got, err := svc.Get(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestCreate_CollectsAllFieldErrors(t *testing.T) {
	svc := newTestService()
	long := make([]rune, 301)
	for i := range long {
		long[i] = 'a'
	}

	_, err := svc.Create(context.Background(), owner, CreateInput{
		PetID:     1,
		Procedure: "Ba",
		Date:      "10/05/2025",
		Time:      "",
		Notes:     strPtr(string(long)),
	})
	require.True(t, errors.Is(err, apperr.ErrValidation))
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "Procedimento é obrigatório (mín. 3 caracteres)", fields["procedimento"])
	assert.Equal(t, "Data inválida (use YYYY-MM-DD)", fields["data"])
	assert.Equal(t, "Horário é obrigatório", fields["horario"])
	assert.Contains(t, fields, "observacoes")
	assert.NotContains(t, fields, "profissional")
}

func TestCreate_UnknownProcedure(t *testing.T) {
	svc := newTestService()
	in := validInput()
	in.Procedure = "Acupuntura"
	_, err := svc.Create(context.Background(), owner, in)
	assert.Equal(t, map[string]string{"procedimento": "Procedimento inválido"}, apperr.FieldsOf(err))
}

func TestNonOwner_DeniedEverywhere(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Create(ctx, stranger, validInput())
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
	_, err = svc.Get(ctx, stranger, a.ID)
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
	_, err = svc.Update(ctx, stranger, a.ID, UpdateInput{Notes: patch.Set("x")})
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
	assert.True(t, errors.Is(svc.Delete(ctx, stranger, a.ID), apperr.ErrAccessDenied))
	_, err = svc.ListByPet(ctx, stranger, 1, ListFilter{})
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))
	_, err = svc.Rate(ctx, stranger, a.ID, RateInput{Score: 5})
	assert.True(t, errors.Is(err, apperr.ErrAccessDenied))

	in := validInput()
	in.PetID = 42
	_, err = svc.Create(ctx, owner, in)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdate_EmptyReturnsUnchanged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	got, err := svc.Update(ctx, owner, a.ID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, a, got)
}

func TestUpdate_OnlyPresentFieldsValidated(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	got, err := svc.Update(ctx, owner, a.ID, UpdateInput{
		Notes:        patch.Set("  trazer carteirinha "),
		Professional: patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Equal(t, "trazer carteirinha", *got.Notes)
	assert.Nil(t, got.Professional)
	assert.Equal(t, a.Date, got.Date)

	_, err = svc.Update(ctx, owner, a.ID, UpdateInput{Procedure: patch.Set("ab"), Time: patch.Set("25:00")})
	fields := apperr.FieldsOf(err)
	assert.Equal(t, "Procedimento deve ter no mínimo 3 caracteres", fields["procedimento"])
	assert.Contains(t, fields, "horario")
}

func TestRate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Rate(ctx, owner, a.ID, RateInput{Score: 6})
	assert.Equal(t, map[string]string{"nota": "A nota deve ser entre 1 e 5"}, apperr.FieldsOf(err))

	// La nota se valida antes de buscar el turno.
	_, err = svc.Rate(ctx, owner, 999, RateInput{Score: 0})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	rated, err := svc.Rate(ctx, owner, a.ID, RateInput{Score: 4, Comment: strPtr("ótimo")})
	require.NoError(t, err)
	require.NotNil(t, rated.RatingScore)
	assert.Equal(t, 4, *rated.RatingScore)
	assert.Equal(t, "ótimo", *rated.RatingComment)

	_, err = svc.Rate(ctx, owner, a.ID, RateInput{Score: 5})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestRate_LongCommentAccepted(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	comment := strings.Repeat("ótimo ", 120)
	rated, err := svc.Rate(ctx, owner, a.ID, RateInput{Score: 5, Comment: &comment})
	require.NoError(t, err)
	require.NotNil(t, rated.RatingComment)
	assert.Equal(t, strings.TrimSpace(comment), *rated.RatingComment)
}

func TestListByPet_FilterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.ListByPet(ctx, owner, 1, ListFilter{From: "2025-13-01", Procedure: "Nada"})
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "dataInicio")
	assert.Contains(t, fields, "procedimento")

	items, err := svc.ListByPet(ctx, owner, 1, ListFilter{From: "2025-05-01", To: "2025-05-31", Procedure: "Vacina"})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
