package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/domain/access"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/middleware"
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

type fakePets map[int64]pets.Pet

func (f fakePets) Get(_ context.Context, caller auth.Claims, id int64) (pets.Pet, error) {
	p, ok := f[id]
	if !ok {
		return pets.Pet{}, apperr.NotFound("pet not found")
	}
	if p.OwnerID != caller.UserID {
		return pets.Pet{}, apperr.AccessDenied("access denied")
	}
	return p, nil
}

type fakeRecords struct {
	items      []healthrecords.Record
	lastFilter healthrecords.ListFilter
}

func (f *fakeRecords) ListByPet(_ context.Context, petID int64, filter healthrecords.ListFilter) ([]healthrecords.Record, error) {
	f.lastFilter = filter
	out := []healthrecords.Record{}
	for _, r := range f.items {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeExpenses struct {
	items      []expenses.Expense
	lastFilter expenses.ListFilter
	calls      int
}

func (f *fakeExpenses) List(_ context.Context, _ auth.Claims, filter expenses.ListFilter) ([]expenses.Expense, error) {
	f.calls++
	f.lastFilter = filter
	return f.items, nil
}

var (
	tutor7 = auth.Claims{UserID: 7, Type: auth.UserTypeTutor}
	tutor8 = auth.Claims{UserID: 8, Type: auth.UserTypeTutor}
	vet9   = auth.Claims{UserID: 9, Type: auth.UserTypeVeterinario}
)

func newTestService() (*Service, *fakeRecords, *fakeExpenses) {
	owners := fakeOwners{1: 7}
	recs := &fakeRecords{items: []healthrecords.Record{
		{ID: 3, PetID: 1, UserID: 7, Type: healthrecords.TypeVaccine, Date: "2025-03-01", Time: "10:00", Professional: "Dra. Ana"},
		{ID: 2, PetID: 1, UserID: 7, Type: healthrecords.TypeVaccine, Date: "2025-02-01", Time: "09:00", Professional: "Dra. Ana"},
		{ID: 1, PetID: 1, UserID: 7, Type: healthrecords.TypeExam, Date: "2025-01-10", Time: "08:00", Professional: "Dr. Beto"},
	}}
	exps := &fakeExpenses{items: []expenses.Expense{
		{ID: 2, PetID: 1, Category: expenses.CategoryFood, Description: "Ração", Amount: decimal.RequireFromString("20.25"), Date: "2025-03-02"},
		{ID: 1, PetID: 1, Category: expenses.CategoryHealth, Description: "Consulta", Amount: decimal.RequireFromString("10.25"), Date: "2025-03-01"},
	}}
	svc := NewService(
		access.NewPolicy(owners),
		fakePets{1: {ID: 1, OwnerID: 7, Name: "Rex", Species: pets.SpeciesDog}},
		recs,
		exps,
	)
	svc.now = func() time.Time { return time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc, recs, exps
}

func TestHealth_CountsByType(t *testing.T) {
	svc, recs, _ := newTestService()

	rep, err := svc.Health(context.Background(), tutor7, 1, Period{From: " 2025-01-01 ", To: "2025-03-31"})
	require.NoError(t, err)

	assert.Equal(t, "Rex", rep.Pet.Name)
	assert.Len(t, rep.Records, 3)
	assert.Equal(t, 2, rep.ByType[healthrecords.TypeVaccine])
	assert.Equal(t, 1, rep.ByType[healthrecords.TypeExam])
	assert.Equal(t, "2025-01-01", recs.lastFilter.From)
	assert.Equal(t, "2025-03-31", recs.lastFilter.To)
	assert.Equal(t, time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC), rep.GeneratedAt)
}

func TestHealth_AccessRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Health(ctx, vet9, 1, Period{})
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	_, err = svc.Health(ctx, tutor8, 1, Period{})
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)

	_, err = svc.Health(ctx, tutor7, 42, Period{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Health(ctx, tutor7, 1, Period{From: "2025-04-01", To: "2025-03-01"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.FieldsOf(err), "dataFim")
}

func TestFinancial_TotalsAndTutorGate(t *testing.T) {
	svc, _, exps := newTestService()
	ctx := context.Background()

	_, err := svc.Financial(ctx, vet9, 0, Period{})
	assert.ErrorIs(t, err, apperr.ErrAccessDenied)
	assert.Equal(t, 0, exps.calls)

	rep, err := svc.Financial(ctx, tutor7, 1, Period{From: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), exps.lastFilter.PetID)
	assert.Equal(t, "2025-03-01", exps.lastFilter.From)
	assert.Equal(t, "30.50", rep.Summary.Total.StringFixed(2))
	assert.Len(t, rep.Summary.ByCategory, len(expenses.AllCategories))
}

func TestHandlers_JSONShape(t *testing.T) {
	svc, _, _ := newTestService()
	r := chi.NewRouter()
	RegisterRoutes(r, svc)

	get := func(path string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), tutor7))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := get("/relatorios/financeiro?dataInicio=2025-03-01")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 30.5, body["resumo"].(map[string]any)["totalGeral"])
	assert.Equal(t, "2025-03-01", body["periodo"].(map[string]any)["inicio"])
	assert.Nil(t, body["periodo"].(map[string]any)["fim"])
	assert.Len(t, body["despesas"], 2)

	code, body = get("/relatorios/saude/1")
	require.Equal(t, http.StatusOK, code)
	resumo := body["resumo"].(map[string]any)
	assert.Equal(t, float64(3), resumo["totalRegistros"])
	assert.Equal(t, float64(2), resumo["porTipo"].(map[string]any)["Vacina"])
	assert.Equal(t, "Rex", body["pet"].(map[string]any)["name"])
	assert.Equal(t, "2025-03-15T10:00:00Z", body["geradoEm"])
}
