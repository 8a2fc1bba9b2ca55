// Package memory implementa los repositorios sobre maps en memoria.
// Un solo Store comparte lock y secuencias entre tablas para poder
// cruzar con pets (ownership) y borrar en cascada.
package memory

import (
	"sync"

	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
)

type Store struct {
	mu sync.RWMutex

	pets         map[int64]pets.Pet
	appointments map[int64]agenda.Appointment
	expenses     map[int64]expenses.Expense
	records      map[int64]healthrecords.Record

	seq map[string]int64
}

func NewStore() *Store {
	return &Store{
		pets:         make(map[int64]pets.Pet),
		appointments: make(map[int64]agenda.Appointment),
		expenses:     make(map[int64]expenses.Expense),
		records:      make(map[int64]healthrecords.Record),
		seq:          make(map[string]int64),
	}
}

// nextID asume el lock de escritura tomado.
func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// ownerOf asume al menos el lock de lectura tomado.
func (s *Store) ownerOf(petID int64) (int64, bool) {
	p, ok := s.pets[petID]
	return p.OwnerID, ok
}

func (s *Store) Pets() pets.Repository                   { return &petRepo{s: s} }
func (s *Store) Agenda() agenda.Repository               { return &agendaRepo{s: s} }
func (s *Store) Expenses() expenses.Repository           { return &expenseRepo{s: s} }
func (s *Store) HealthRecords() healthrecords.Repository { return &recordRepo{s: s} }

func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

// newestFirst ordena por data DESC, horario DESC, id DESC.
func newestFirst(dateI, timeI string, idI int64, dateJ, timeJ string, idJ int64) bool {
	if dateI != dateJ {
		return dateI > dateJ
	}
	if timeI != timeJ {
		return timeI > timeJ
	}
	return idI > idJ
}
