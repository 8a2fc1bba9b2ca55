package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-care-manager/internal/adapters/storage/sqlite"
	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/platform/apperr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, SQLite))
	require.NoError(t, Migrate(ctx, db, SQLite), "migrate must be idempotent")
	return New(db, SQLite)
}

var created = time.Date(2025, 3, 15, 10, 30, 0, 123000000, time.UTC)

func strPtr(s string) *string { return &s }

func TestRebind(t *testing.T) {
	assert.Equal(t, "a = $1 AND b = $2", Postgres.Rebind("a = ? AND b = ?"))
	assert.Equal(t, "a = ? AND b = ?", SQLite.Rebind("a = ? AND b = ?"))

	d, err := ParseDialect("pgx")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)
	_, err = ParseDialect("oracle")
	assert.Error(t, err)
}

func TestPets_RoundTripAndUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Pets()

	sex := pets.SexFemale
	age := 3
	weight := 4.5
	in := pets.Pet{
		OwnerID:   7,
		Name:      "Mia",
		Species:   pets.SpeciesCat,
		Breed:     strPtr("SRD"),
		Sex:       &sex,
		Age:       &age,
		Weight:    &weight,
		CreatedAt: created,
		UpdatedAt: created,
	}
	p, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.Positive(t, p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Nil(t, got.Height)

	got.Name = "Mia Maria"
	got.Breed = nil
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)
	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mia Maria", again.Name)
	assert.Nil(t, again.Breed)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = repo.Update(ctx, pets.Pet{ID: 999, Name: "x", Species: pets.SpeciesCat, UpdatedAt: created})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := repo.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSchema_RejectsUnknownEnumValues(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Pets().Create(context.Background(), pets.Pet{OwnerID: 7, Name: "Rex", Species: "Dragão", CreatedAt: created, UpdatedAt: created})
	assert.Error(t, err)
}

func TestAgenda_FiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.Pets().Create(ctx, pets.Pet{OwnerID: 7, Name: "Rex", Species: pets.SpeciesDog, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)

	repo := s.Agenda()
	for _, a := range []agenda.Appointment{
		{PetID: p.ID, Procedure: agenda.ProcedureVaccine, Date: "2025-03-01", Time: "09:00"},
		{PetID: p.ID, Procedure: agenda.ProcedureGrooming, Date: "2025-03-01", Time: "15:00"},
		{PetID: p.ID, Procedure: agenda.ProcedureVaccine, Date: "2025-04-10", Time: "08:00"},
	} {
		a.CreatedAt = created
		_, err := repo.Create(ctx, a)
		require.NoError(t, err)
	}

	all, err := repo.ListByPet(ctx, p.ID, agenda.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{all[0].ID, all[1].ID, all[2].ID})

	march, err := repo.ListByPet(ctx, p.ID, agenda.ListFilter{From: "2025-03-01", To: "2025-03-31", Procedure: agenda.ProcedureVaccine})
	require.NoError(t, err)
	require.Len(t, march, 1)
	assert.Equal(t, int64(1), march[0].ID)

	score := 5
	rated := all[0]
	rated.RatingScore = &score
	rated.RatingComment = strPtr("Ótimo")
	_, err = repo.Update(ctx, rated)
	require.NoError(t, err)
	got, err := repo.GetByID(ctx, rated.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RatingScore)
	assert.Equal(t, 5, *got.RatingScore)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestExpenses_ScopedByOwnerWithExactAmounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mine, err := s.Pets().Create(ctx, pets.Pet{OwnerID: 7, Name: "Rex", Species: pets.SpeciesDog, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	other, err := s.Pets().Create(ctx, pets.Pet{OwnerID: 8, Name: "Tom", Species: pets.SpeciesCat, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)

	repo := s.Expenses()
	for _, e := range []expenses.Expense{
		{PetID: mine.ID, Category: expenses.CategoryFood, Description: "Ração", Amount: decimal.RequireFromString("19.99"), Date: "2025-03-01"},
		{PetID: mine.ID, Category: expenses.CategoryHealth, Description: "Consulta", Amount: decimal.RequireFromString("150.10"), Date: "2025-03-05"},
		{PetID: other.ID, Category: expenses.CategoryFood, Description: "Ração", Amount: decimal.RequireFromString("7.00"), Date: "2025-03-02"},
	} {
		e.CreatedAt = created
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	got, err := repo.ListByOwner(ctx, 7, expenses.ListFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-05", got[0].Date)
	assert.Equal(t, "170.09", expenses.Summarize(got).Total.StringFixed(2))

	food, err := repo.ListByOwner(ctx, 7, expenses.ListFilter{Category: expenses.CategoryFood})
	require.NoError(t, err)
	require.Len(t, food, 1)
	assert.True(t, food[0].Amount.Equal(decimal.RequireFromString("19.99")))
}

func TestPetDelete_CascadesChildren(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.Pets().Create(ctx, pets.Pet{OwnerID: 7, Name: "Rex", Species: pets.SpeciesDog, CreatedAt: created, UpdatedAt: created})
	require.NoError(t, err)
	rec, err := s.HealthRecords().Create(ctx, healthrecords.Record{
		PetID: p.ID, UserID: 7, Type: healthrecords.TypeObservation,
		Date: "2025-03-01", Time: "10:00", Professional: "Dra. Ana",
		FilePath: strPtr("registros/1/a.pdf"), CreatedAt: created,
	})
	require.NoError(t, err)
	got, err := s.HealthRecords().GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	exp, err := s.Expenses().Create(ctx, expenses.Expense{PetID: p.ID, Category: expenses.CategoryOther, Description: "Brinquedo", Amount: decimal.NewFromInt(12), Date: "2025-03-01", CreatedAt: created})
	require.NoError(t, err)

	require.NoError(t, s.Pets().Delete(ctx, p.ID))

	_, err = s.HealthRecords().GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.Expenses().GetByID(ctx, exp.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, s.Pets().Delete(ctx, p.ID), apperr.ErrNotFound)
}
