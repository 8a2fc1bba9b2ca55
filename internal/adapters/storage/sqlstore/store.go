package sqlstore

import (
	"database/sql"

	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
)

// Store agrupa los repositorios sobre un mismo *sql.DB. No cierra la conexión;
// eso queda del lado de quien la abrió.
type Store struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d}
}

func (s *Store) DB() *sql.DB       { return s.db }
func (s *Store) Dialect() Dialect { return s.d }

func (s *Store) Pets() pets.Repository                   { return &PetsRepo{s: s} }
func (s *Store) Agenda() agenda.Repository               { return &AgendaRepo{s: s} }
func (s *Store) Expenses() expenses.Repository           { return &ExpensesRepo{s: s} }
func (s *Store) HealthRecords() healthrecords.Repository { return &RecordsRepo{s: s} }
