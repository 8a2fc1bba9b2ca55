package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"pet-care-manager/internal/domain/agenda"
	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/healthrecords"
	"pet-care-manager/internal/domain/pets"
)

// Migrate crea el schema si no existe. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schema(d) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrate: %w", err)
	}
	return nil
}

func schema(d Dialect) []string {
	t := d.types()
	return []string{
		`CREATE TABLE IF NOT EXISTS pets (
			id ` + t.id + `,
			owner_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			species TEXT NOT NULL CHECK (species IN (` + inList(pets.AllSpecies) + `)),
			breed TEXT,
			sex TEXT CHECK (sex IS NULL OR sex IN (` + inList(pets.AllSexes) + `)),
			age INTEGER CHECK (age IS NULL OR age >= 0),
			weight ` + t.float + ` CHECK (weight IS NULL OR weight > 0),
			height ` + t.float + ` CHECK (height IS NULL OR height > 0),
			notes TEXT,
			created_at ` + t.ts + ` NOT NULL,
			updated_at ` + t.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pets_owner ON pets (owner_id)`,

		`CREATE TABLE IF NOT EXISTS agenda (
			id ` + t.id + `,
			pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
			procedimento TEXT NOT NULL CHECK (procedimento IN (` + inList(agenda.AllProcedures) + `)),
			data TEXT NOT NULL,
			horario TEXT NOT NULL,
			profissional TEXT,
			observacoes TEXT,
			avaliacao_nota INTEGER CHECK (avaliacao_nota IS NULL OR avaliacao_nota BETWEEN 1 AND 5),
			avaliacao_comentario TEXT,
			created_at ` + t.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agenda_pet ON agenda (pet_id, data, horario)`,

		`CREATE TABLE IF NOT EXISTS despesas (
			id ` + t.id + `,
			pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
			categoria TEXT NOT NULL CHECK (categoria IN (` + inList(expenses.AllCategories) + `)),
			descricao TEXT NOT NULL,
			valor ` + t.money + ` NOT NULL CHECK (` + d.moneyExpr("valor") + ` > 0),
			data TEXT NOT NULL,
			observacoes TEXT,
			created_at ` + t.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_despesas_pet ON despesas (pet_id, data)`,

		`CREATE TABLE IF NOT EXISTS registros_saude (
			id ` + t.id + `,
			pet_id BIGINT NOT NULL REFERENCES pets(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			tipo_registro TEXT NOT NULL CHECK (tipo_registro IN (` + inList(healthrecords.AllTypes) + `)),
			data TEXT NOT NULL,
			horario TEXT NOT NULL,
			profissional TEXT NOT NULL,
			file_path TEXT,
			created_at ` + t.ts + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_registros_pet ON registros_saude (pet_id, data, horario)`,
	}
}

func inList[T ~string](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, "'"+strings.ReplaceAll(string(v), "'", "''")+"'")
	}
	return strings.Join(parts, ", ")
}
